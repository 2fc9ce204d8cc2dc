package sim

import (
	"context"
	"sync"
)

// Job is one simulator with the config and trajectory it runs.
type Job struct {
	Sim        *Simulator
	Config     Config
	Trajectory Trajectory
}

// Batch runs independent jobs side by side. Each simulator must own its
// engine and model.
type Batch struct {
	jobs []Job
}

func NewBatch(jobs ...Job) *Batch {
	return &Batch{jobs: jobs}
}

func (b *Batch) Len() int { return len(b.jobs) }

// Run returns one result per job, in job order.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b.jobs))
	errs := make([]error, len(b.jobs))

	var wg sync.WaitGroup
	for i, job := range b.jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			results[idx], errs[idx] = job.Sim.Run(ctx, job.Config, job.Trajectory)
		}(i, job)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
