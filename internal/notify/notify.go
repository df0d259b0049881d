// Package notify shows transient status alerts. Alerts raised while
// handling a request collect on a per-request Stack; alerts that must
// survive a redirect travel in a signed flash cookie.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Kind is the severity of an alert.
type Kind string

// Alert kinds.
const (
	Success Kind = "success"
	Danger  Kind = "danger"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// DefaultDuration is how long an alert stays visible.
const DefaultDuration = 5 * time.Second

// Alert is one status banner.
type Alert struct {
	Kind     Kind          `json:"kind"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// DismissMillis returns the auto-dismiss delay for the page script.
func (a Alert) DismissMillis() int64 {
	return a.Duration.Milliseconds()
}

// Stack holds the alerts of one page. At most one alert per kind is kept.
type Stack struct {
	mu     sync.Mutex
	alerts []Alert
}

// Add shows a, replacing a visible alert of the same kind.
func (s *Stack) Add(a Alert) {
	if a.Duration <= 0 {
		a.Duration = DefaultDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].Kind == a.Kind {
			s.alerts[i] = a
			return
		}
	}
	s.alerts = append(s.alerts, a)
}

// Alerts returns a copy of the visible alerts in the order they were first
// shown.
func (s *Stack) Alerts() []Alert {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Len returns the number of visible alerts.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

type stackKey struct{}

// WithStack returns a context carrying s.
func WithStack(ctx context.Context, s *Stack) context.Context {
	return context.WithValue(ctx, stackKey{}, s)
}

// StackFrom returns the stack carried by ctx, or nil.
func StackFrom(ctx context.Context) *Stack {
	s, _ := ctx.Value(stackKey{}).(*Stack)
	return s
}

// Notifier shows alerts to the user.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, message string)
}

// ContextNotifier adds alerts to the Stack carried by the context.
type ContextNotifier struct {
	Duration time.Duration
}

// Notify implements Notifier. Without a stack the alert is only logged.
func (n ContextNotifier) Notify(ctx context.Context, kind Kind, message string) {
	s := StackFrom(ctx)
	if s == nil {
		slog.Warn("alert dropped, no stack in context", "kind", kind, "message", message)
		return
	}
	s.Add(Alert{Kind: kind, Message: message, Duration: n.Duration})
}
