package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

const apiBase = "http://localhost:5000"

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		ID    string `json:"id"`
	} `json:"user"`
}

type question struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Answers     int    `json:"answers"`
}

type answer struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	UserVotes  []struct {
		UserID string `json:"userId"`
		Type   string `json:"type"`
	} `json:"userVotes"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Stats    struct {
		Questions int `json:"questions"`
		Answers   int `json:"answers"`
		Upvotes   int `json:"upvotes"`
	} `json:"stats"`
}

func postJSON(t *testing.T, path, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, apiBase+path, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func get(t *testing.T, path, token string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, apiBase+path, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

// TestAPIEndpoints runs the full flow against a running server.
func TestAPIEndpoints(t *testing.T) {
	if _, err := http.Get(apiBase); err != nil {
		t.Skipf("API server is not running at %s: %v", apiBase, err)
	}

	stamp := time.Now().UnixNano()
	email := fmt.Sprintf("test%d@example.com", stamp)
	password := "password123"
	marker := fmt.Sprintf("zzmarker%d", stamp)

	t.Run("Signup", func(t *testing.T) {
		resp, body := postJSON(t, "/signup", "", map[string]string{
			"name": "Test User", "email": email, "password": password,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("signup status %d: %s", resp.StatusCode, body)
		}
		var sr signupResponse
		if err := json.Unmarshal(body, &sr); err != nil || sr.UserID == "" {
			t.Fatalf("signup response missing userId: %s", body)
		}
	})

	t.Run("Signup duplicate email", func(t *testing.T) {
		resp, body := postJSON(t, "/signup", "", map[string]string{
			"name": "Test User", "email": email, "password": password,
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("duplicate signup status %d: %s", resp.StatusCode, body)
		}
	})

	t.Run("Concurrent signups with one email", func(t *testing.T) {
		raceEmail := fmt.Sprintf("race%d@example.com", stamp)
		payload, _ := json.Marshal(map[string]string{
			"name": "Race User", "email": raceEmail, "password": password,
		})
		statuses := make(chan int, 2)
		for i := 0; i < 2; i++ {
			go func() {
				resp, err := http.Post(apiBase+"/signup", "application/json", bytes.NewReader(payload))
				if err != nil {
					statuses <- 0
					return
				}
				resp.Body.Close()
				statuses <- resp.StatusCode
			}()
		}

		created, conflicted := 0, 0
		for i := 0; i < 2; i++ {
			switch <-statuses {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		if created != 1 || conflicted != 1 {
			t.Errorf("concurrent signups: %d created, %d conflicted, want exactly 1/1", created, conflicted)
		}
	})

	t.Run("Signup missing fields", func(t *testing.T) {
		resp, _ := postJSON(t, "/signup", "", map[string]string{"name": "x"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("Login wrong password", func(t *testing.T) {
		resp, body := postJSON(t, "/login", "", map[string]string{
			"email": email, "password": "wrong",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status %d, want 401", resp.StatusCode)
		}
		var er struct {
			Error string `json:"error"`
		}
		json.Unmarshal(body, &er)
		if er.Error != "Invalid credentials" {
			t.Errorf("error message %q must not reveal whether the email exists", er.Error)
		}
	})

	t.Run("Login unknown email", func(t *testing.T) {
		resp, body := postJSON(t, "/login", "", map[string]string{
			"email": fmt.Sprintf("nobody%d@example.com", stamp), "password": "wrong",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status %d, want 401", resp.StatusCode)
		}
		var er struct {
			Error string `json:"error"`
		}
		json.Unmarshal(body, &er)
		if er.Error != "Invalid credentials" {
			t.Errorf("error message %q must match the wrong-password one", er.Error)
		}
	})

	var token string
	t.Run("Login", func(t *testing.T) {
		resp, body := postJSON(t, "/login", "", map[string]string{
			"email": email, "password": password,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login status %d: %s", resp.StatusCode, body)
		}
		var lr loginResponse
		if err := json.Unmarshal(body, &lr); err != nil || lr.Token == "" {
			t.Fatalf("no token in login response: %s", body)
		}
		if lr.User.Email != email {
			t.Errorf("login user email %q, want %q", lr.User.Email, email)
		}
		token = lr.Token
	})
	if token == "" {
		t.Fatal("no auth token, cannot continue")
	}

	var questionID string
	t.Run("Post question", func(t *testing.T) {
		resp, body := postJSON(t, "/questions", token, map[string]string{
			"title":       "Best momos nearby?",
			"location":    "Old Town",
			"category":    "snacks",
			"description": "Looking for steamed momos, " + marker,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("post question status %d: %s", resp.StatusCode, body)
		}
		var qr struct {
			QuestionID string `json:"questionId"`
		}
		if err := json.Unmarshal(body, &qr); err != nil || qr.QuestionID == "" {
			t.Fatalf("no questionId in response: %s", body)
		}
		questionID = qr.QuestionID
	})
	if questionID == "" {
		t.Fatal("no question id, cannot continue")
	}

	t.Run("Search matches description only", func(t *testing.T) {
		resp, body := get(t, "/search?q="+marker, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("search status %d: %s", resp.StatusCode, body)
		}
		var results []question
		if err := json.Unmarshal(body, &results); err != nil {
			t.Fatalf("decoding search results: %v", err)
		}
		found := false
		for _, q := range results {
			if q.ID == questionID {
				found = true
			}
		}
		if !found {
			t.Errorf("question %s not returned for description-only match %q", questionID, marker)
		}
	})

	t.Run("Search requires query", func(t *testing.T) {
		resp, _ := get(t, "/search", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d, want 400", resp.StatusCode)
		}
	})

	var answerID string
	t.Run("Post answer increments question counter", func(t *testing.T) {
		resp, body := get(t, "/questions/"+questionID, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get question status %d: %s", resp.StatusCode, body)
		}
		var before question
		json.Unmarshal(body, &before)

		resp, body = postJSON(t, "/answers", token, map[string]string{
			"question_id": questionID,
			"content":     "Try the stall behind the market",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("post answer status %d: %s", resp.StatusCode, body)
		}
		var ar struct {
			AnswerID string `json:"answerId"`
		}
		if err := json.Unmarshal(body, &ar); err != nil || ar.AnswerID == "" {
			t.Fatalf("no answerId in response: %s", body)
		}
		answerID = ar.AnswerID

		resp, body = get(t, "/questions/"+questionID, "")
		var after question
		json.Unmarshal(body, &after)
		if after.Answers != before.Answers+1 {
			t.Errorf("question answers counter %d, want %d", after.Answers, before.Answers+1)
		}
	})
	if answerID == "" {
		t.Fatal("no answer id, cannot continue")
	}

	t.Run("Answer references its question", func(t *testing.T) {
		resp, body := get(t, "/answers/"+questionID, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get answers status %d: %s", resp.StatusCode, body)
		}
		var answers []answer
		if err := json.Unmarshal(body, &answers); err != nil {
			t.Fatalf("decoding answers: %v", err)
		}
		found := false
		for _, a := range answers {
			if a.ID == answerID && a.QuestionID == questionID {
				found = true
			}
		}
		if !found {
			t.Errorf("answer %s with question_id %s not found", answerID, questionID)
		}
	})

	t.Run("Answer to missing question rejected", func(t *testing.T) {
		resp, _ := postJSON(t, "/answers", token, map[string]string{
			"question_id": "ffffffffffffffffffffffff",
			"content":     "orphan",
		})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status %d, want 404", resp.StatusCode)
		}
	})

	fetchAnswer := func(t *testing.T) answer {
		t.Helper()
		_, body := get(t, "/answers/"+questionID, "")
		var answers []answer
		if err := json.Unmarshal(body, &answers); err != nil {
			t.Fatalf("decoding answers: %v", err)
		}
		for _, a := range answers {
			if a.ID == answerID {
				return a
			}
		}
		t.Fatalf("answer %s disappeared", answerID)
		return answer{}
	}

	t.Run("Vote requires token", func(t *testing.T) {
		resp, _ := postJSON(t, "/answers/"+answerID+"/upvote", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", resp.StatusCode)
		}
	})

	t.Run("Upvote", func(t *testing.T) {
		resp, body := postJSON(t, "/answers/"+answerID+"/upvote", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("upvote status %d: %s", resp.StatusCode, body)
		}
		a := fetchAnswer(t)
		if a.Upvotes != 1 || a.Downvotes != 0 || len(a.UserVotes) != 1 {
			t.Errorf("after upvote: up=%d down=%d ledger=%d, want 1/0/1", a.Upvotes, a.Downvotes, len(a.UserVotes))
		}
	})

	t.Run("Repeat upvote conflicts", func(t *testing.T) {
		resp, body := postJSON(t, "/answers/"+answerID+"/upvote", token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("repeat upvote status %d: %s", resp.StatusCode, body)
		}
		a := fetchAnswer(t)
		if a.Upvotes != 1 || a.Downvotes != 0 || len(a.UserVotes) != 1 {
			t.Errorf("conflict mutated state: up=%d down=%d ledger=%d", a.Upvotes, a.Downvotes, len(a.UserVotes))
		}
	})

	t.Run("Downvote flips the vote", func(t *testing.T) {
		resp, body := postJSON(t, "/answers/"+answerID+"/downvote", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("downvote status %d: %s", resp.StatusCode, body)
		}
		a := fetchAnswer(t)
		if a.Upvotes != 0 || a.Downvotes != 1 {
			t.Errorf("after flip: up=%d down=%d, want 0/1", a.Upvotes, a.Downvotes)
		}
		if len(a.UserVotes) != 1 || a.UserVotes[0].Type != "downvote" {
			t.Errorf("ledger after flip: %+v, want one downvote entry", a.UserVotes)
		}
	})

	t.Run("Vote on missing answer", func(t *testing.T) {
		resp, _ := postJSON(t, "/answers/ffffffffffffffffffffffff/upvote", token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status %d, want 404", resp.StatusCode)
		}
		resp, _ = postJSON(t, "/answers/not-an-id/upvote", token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("invalid id status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("Profile stats", func(t *testing.T) {
		resp, body := get(t, "/profile", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("profile status %d: %s", resp.StatusCode, body)
		}
		var pr profileResponse
		if err := json.Unmarshal(body, &pr); err != nil {
			t.Fatalf("decoding profile: %v", err)
		}
		if pr.Email != email {
			t.Errorf("profile email %q, want %q", pr.Email, email)
		}
		if pr.Stats.Questions != 1 || pr.Stats.Answers != 1 {
			t.Errorf("stats questions=%d answers=%d, want 1/1", pr.Stats.Questions, pr.Stats.Answers)
		}
	})

	t.Run("Profile requires token", func(t *testing.T) {
		resp, _ := get(t, "/profile", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status %d, want 401", resp.StatusCode)
		}
	})

	t.Run("Update profile", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, apiBase+"/profile",
			bytes.NewBufferString(`{"location":"New Market"}`))
		if err != nil {
			t.Fatalf("building request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, body := do(t, req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("update profile status %d: %s", resp.StatusCode, body)
		}

		_, body = get(t, "/profile", token)
		var pr profileResponse
		json.Unmarshal(body, &pr)
		if pr.Location != "New Market" {
			t.Errorf("location %q, want %q", pr.Location, "New Market")
		}
	})

	t.Run("User questions", func(t *testing.T) {
		resp, body := get(t, "/user/questions", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, body)
		}
		var questions []question
		if err := json.Unmarshal(body, &questions); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if len(questions) != 1 || questions[0].ID != questionID {
			t.Errorf("user questions = %d entries, want the posted one", len(questions))
		}
	})

	t.Run("Stalls", func(t *testing.T) {
		resp, body := postJSON(t, "/stalls", token, map[string]string{
			"name": "Momo Corner", "food_type": "momos", "city": "Old Town", "area": "Market",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create stall status %d: %s", resp.StatusCode, body)
		}

		resp, body = get(t, "/stalls?food=momos,noodles&location=old", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list stalls status %d: %s", resp.StatusCode, body)
		}
		var stalls []struct {
			Name     string `json:"name"`
			FoodType string `json:"food_type"`
		}
		if err := json.Unmarshal(body, &stalls); err != nil {
			t.Fatalf("decoding stalls: %v", err)
		}
		if len(stalls) == 0 {
			t.Error("stall filter returned nothing for a matching stall")
		}
	})
}
