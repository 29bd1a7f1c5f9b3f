package async

import (
	"context"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task[T any] struct {
	Name string
	Func func(context.Context) (T, error)
}

// Collect executes tasks in parallel and returns their results in task
// order. It waits for every task; if any fail, the results are still
// returned along with the first error in task order.
//
// Example:
//
//	tasks := []Task[string]{
//	    {Name: "runningtime", Func: p.RunningTime},
//	    {Name: "memusage", Func: p.MemUsage},
//	}
//	out, err := Collect(ctx, tasks)
func Collect[T any](ctx context.Context, tasks []Task[T]) ([]T, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	type result struct {
		index int
		value T
		err   error
	}

	resultChan := make(chan result, len(tasks))

	for i, task := range tasks {
		go func() {
			v, err := task.Func(ctx)
			resultChan <- result{index: i, value: v, err: err}
		}()
	}

	values := make([]T, len(tasks))
	errs := make([]error, len(tasks))
	for range len(tasks) {
		res := <-resultChan
		values[res.index] = res.value
		errs[res.index] = res.err
	}

	for i, err := range errs {
		if err != nil {
			return values, fmt.Errorf("%s failed: %w", tasks[i].Name, err)
		}
	}
	return values, nil
}
