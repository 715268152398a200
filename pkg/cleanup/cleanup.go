package cleanup

import (
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
)

type Job struct {
	Name string
	F    func() error
}

var (
	mu   sync.Mutex
	jobs []*Job
)

func Register(j *Job) {
	mu.Lock()
	defer mu.Unlock()
	jobs = append(jobs, j)
}

// CleanUp runs registered jobs last-in first-out and forgets them.
func CleanUp() {
	_ = Run()
}

// Run is CleanUp that also reports the joined job errors.
func Run() error {
	mu.Lock()
	pending := slices.Clone(jobs)
	jobs = nil
	mu.Unlock()

	logger := zap.L().Sugar()
	var errs []error
	for _, j := range slices.Backward(pending) {
		logger.Debugw("cleanup job started", "job", j.Name)
		if err := j.F(); err != nil {
			logger.Warnw("cleanup job finished with error", "job", j.Name, "error", err)
			errs = append(errs, errors.New(j.Name+": "+err.Error()))
			continue
		}
		logger.Debugw("cleaned", "job", j.Name)
	}
	return errors.Join(errs...)
}
