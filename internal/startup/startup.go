// Package startup runs the ordered initialization steps of the server
// under one deadline. A failed sequence stays failed.
package startup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultTimeout bounds the whole sequence.
const DefaultTimeout = 10 * time.Second

// Status is the state of a sequence or one of its steps.
type Status int

const (
	Pending Status = iota
	Running
	Ready
	Failed
	// Skipped marks an optional step that failed.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Step is one initialization step. An optional step may fail without
// failing the sequence.
type Step struct {
	Name     string
	Optional bool
	Run      func(ctx context.Context) error
}

// StepReport describes the outcome of one step.
type StepReport struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report describes the sequence for health checks.
type Report struct {
	Status Status       `json:"status"`
	Error  string       `json:"error,omitempty"`
	Steps  []StepReport `json:"steps"`
}

// Sequence runs steps in order.
type Sequence struct {
	steps   []Step
	timeout time.Duration

	mu      sync.RWMutex
	status  Status
	err     error
	reports []StepReport
}

// NewSequence returns a sequence of steps bounded by timeout. A zero
// timeout selects DefaultTimeout.
func NewSequence(timeout time.Duration, steps ...Step) *Sequence {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	reports := make([]StepReport, len(steps))
	for i, st := range steps {
		reports[i] = StepReport{Name: st.Name, Status: Pending}
	}
	return &Sequence{steps: steps, timeout: timeout, reports: reports}
}

// ErrTimeout is returned when the sequence exceeds its deadline.
var ErrTimeout = errors.New("startup timed out")

// Start runs the sequence once. Later calls return the first outcome
// without running anything.
func (s *Sequence) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.status != Pending {
		err := s.err
		s.mu.Unlock()
		return err
	}
	s.status = Running
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for i, st := range s.steps {
		s.setStep(i, StepReport{Name: st.Name, Status: Running})

		start := time.Now()
		err := runStep(ctx, st)
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, s.timeout, err)
		}
		rep := StepReport{Name: st.Name, Status: Ready, Duration: time.Since(start)}

		if err != nil {
			rep.Error = err.Error()
			if st.Optional && !errors.Is(err, ErrTimeout) {
				rep.Status = Skipped
				s.setStep(i, rep)
				slog.Warn("optional startup step failed", "step", st.Name, "error", err)
				continue
			}
			rep.Status = Failed
			s.setStep(i, rep)
			return s.fail(fmt.Errorf("startup step %s: %w", st.Name, err))
		}

		s.setStep(i, rep)
		slog.Info("startup step done", "step", st.Name, "duration", rep.Duration)
	}

	s.mu.Lock()
	s.status = Ready
	s.mu.Unlock()
	return nil
}

// runStep runs st but returns as soon as ctx is done.
func runStep(ctx context.Context, st Step) error {
	done := make(chan error, 1)
	go func() { done <- st.Run(ctx) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sequence) setStep(i int, rep StepReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[i] = rep
}

func (s *Sequence) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Failed
	s.err = err
	return err
}

// Status returns the sequence status.
func (s *Sequence) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Ready reports whether every required step succeeded.
func (s *Sequence) Ready() bool {
	return s.Status() == Ready
}

// Err returns the error that failed the sequence.
func (s *Sequence) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Report returns a copy of the current state.
func (s *Sequence) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := Report{Status: s.status, Steps: append([]StepReport(nil), s.reports...)}
	if s.err != nil {
		r.Error = s.err.Error()
	}
	return r
}
