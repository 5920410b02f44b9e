package utils

import "sync"

// ParallelTask is a unit of work executed concurrently by RunParallelTasks.
type ParallelTask func() (interface{}, error)

// RunParallelTasks executes the tasks concurrently and returns their results
// and errors in task order.
func RunParallelTasks(tasks []ParallelTask) ([]interface{}, []error) {
	var wg sync.WaitGroup
	results := make([]interface{}, len(tasks))
	errors := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			result, err := t()
			results[index] = result
			errors[index] = err
		}(i, task)
	}

	wg.Wait()
	return results, errors
}
