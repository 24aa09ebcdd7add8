package testutil

import "sync"

// ConcurrentResult tallies the outcomes of RunConcurrent.
type ConcurrentResult struct {
	Successes int32
	Failures  int32
	// Errs holds every non-nil error, in index order.
	Errs []error
}

// RunConcurrent runs fn on n goroutines released together.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	_, errs := RunConcurrentCollect(n, func(idx int) (struct{}, error) {
		return struct{}{}, fn(idx)
	})
	result := &ConcurrentResult{}
	for _, err := range errs {
		if err == nil {
			result.Successes++
			continue
		}
		result.Failures++
		result.Errs = append(result.Errs, err)
	}
	return result
}

// RunConcurrentCollect runs fn on n goroutines released together and returns
// each result in index order.
func RunConcurrentCollect[T any](n int, fn func(idx int) (T, error)) ([]T, []error) {
	var wg sync.WaitGroup
	results := make([]T, n)
	errs := make([]error, n)
	start := make(chan struct{})

	for i := range n {
		wg.Go(func() {
			<-start
			results[i], errs[i] = fn(i)
		})
	}
	close(start)
	wg.Wait()
	return results, errs
}
