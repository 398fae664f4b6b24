package markup

import (
	"sync"
	"time"
)

// statusStep maps an elapsed-time threshold to a progress label shown
// while a chat request is outstanding.
type statusStep struct {
	after time.Duration
	label string
}

var statusSteps = []statusStep{
	{0, "Thinking about your recipe..."},
	{2 * time.Second, "Consulting the cookbook..."},
	{5 * time.Second, "Balancing the ingredients..."},
	{8 * time.Second, "Writing up the steps..."},
	{12 * time.Second, "Almost there, plating up..."},
}

// StatusLabel selects the label of the latest threshold not exceeding
// the elapsed time.
func StatusLabel(elapsed time.Duration) string {
	label := statusSteps[0].label
	for _, step := range statusSteps {
		if elapsed < step.after {
			break
		}
		label = step.label
	}
	return label
}

// StatusCycle is the owned handle for one running status-label cycle.
// A cycle belongs to exactly one outstanding request and must be
// stopped when that request resolves, success or failure.
type StatusCycle struct {
	stop chan struct{}
	once sync.Once
}

// StartStatusCycle starts a cycle that invokes onUpdate immediately
// and then once per interval until stopped. The handle model avoids
// leaking a recurring timer when several chat widgets share a page.
func StartStatusCycle(interval time.Duration, onUpdate func(label string)) *StatusCycle {
	c := &StatusCycle{stop: make(chan struct{})}
	started := time.Now()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		onUpdate(StatusLabel(0))
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				onUpdate(StatusLabel(time.Since(started)))
			}
		}
	}()

	return c
}

// Stop cancels the cycle. It is safe to call more than once; the
// cancellation happens exactly once.
func (c *StatusCycle) Stop() {
	c.once.Do(func() {
		close(c.stop)
	})
}
