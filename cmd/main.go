package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/streetup/backend/internal/config"
	"github.com/streetup/backend/internal/db"
	"github.com/streetup/backend/internal/handlers"
	"github.com/streetup/backend/internal/middleware"
	"github.com/streetup/backend/internal/services"
	"github.com/streetup/backend/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mongo, err := db.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndex()

	photos, err := storage.NewObjectStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	users := mongo.Collection("users")
	questions := mongo.Collection("queries")
	answers := mongo.Collection("answers")
	stalls := mongo.Collection("localstalls")

	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(users, tokenService)
	questionService := services.NewQuestionService(questions)
	answerService := services.NewAnswerService(answers, questions)
	voteService := services.NewVoteService(answers)
	userService := services.NewUserService(users, questions, answers)
	stallService := services.NewStallService(stalls, photos)

	authHandler := handlers.NewAuthHandler(authService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	answerHandler := handlers.NewAnswerHandler(answerService, voteService, authService)
	userHandler := handlers.NewUserHandler(userService, questionService, answerService)
	stallHandler := handlers.NewStallHandler(stallService)

	auth := middleware.NewAuth(tokenService)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("StreetUp backend API running")
	})

	// Auth
	app.Post("/signup", authHandler.Signup)
	app.Post("/login", authHandler.Login)

	// Questions
	app.Get("/questions", questionHandler.List)
	app.Get("/questions/:id", questionHandler.Get)
	app.Post("/questions", auth.Optional, questionHandler.Create)
	app.Get("/search", questionHandler.Search)

	// Answers and votes
	app.Get("/answers/:questionId", answerHandler.ByQuestion)
	app.Post("/answers", auth.Optional, answerHandler.Create)
	app.Post("/answers/:answerId/upvote", auth.Required, answerHandler.Upvote)
	app.Post("/answers/:answerId/downvote", auth.Required, answerHandler.Downvote)

	// Profile
	app.Get("/profile", auth.Required, userHandler.Profile)
	app.Put("/profile", auth.Required, userHandler.UpdateProfile)
	app.Get("/user/questions", auth.Required, userHandler.Questions)
	app.Get("/user/answers", auth.Required, userHandler.Answers)

	// Stalls
	app.Get("/stalls", stallHandler.List)
	app.Post("/stalls", auth.Optional, stallHandler.Create)
	app.Post("/stalls/:id/photo", auth.Required, stallHandler.AttachPhoto)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mongo.Close(ctx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}
}
