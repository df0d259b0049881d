package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/erazemk/trgovina/internal/notify"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Alert texts shown by middleware.
const (
	PanicMessage     = "Something went wrong. Please try again."
	RateLimitMessage = "Too many requests. Please try again later."
)

type requestInfoKey struct{}

// requestInfo is filled in as the request travels through the handlers.
type requestInfo struct {
	id      string
	pattern string
}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// RequestID returns the id of the request being served, or "".
func RequestID(ctx context.Context) string {
	if info := requestInfoFrom(ctx); info != nil {
		return info.id
	}
	return ""
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests assigns a request id, logs every request with method, path,
// status and duration, and counts it by route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		info := &requestInfo{id: id}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

		s.metrics.ObserveHTTP(r.Method, info.pattern, rec.status)

		slog.Info("request",
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", id,
		)
	})
}

// recordPattern copies the pattern the mux matched into the request info.
// Outer middleware holds earlier copies of the request that never see it.
func recordPattern(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if info := requestInfoFrom(r.Context()); info != nil {
			info.pattern = r.Pattern
		}
	})
}

// recoverPanics turns a handler panic into a danger alert. Page loads get
// an error page; submits are sent back to the referring page.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("handler panicked",
				"panic", rec,
				"request_id", RequestID(r.Context()),
				"stack", string(debug.Stack()),
			)
			alert := notify.Alert{Kind: notify.Danger, Message: PanicMessage}
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				// Redirecting a failed page load back to itself would loop.
				s.templates.Render(w, http.StatusInternalServerError, "error.html", PageData{
					Title:  "Error",
					Alerts: []notify.Alert{alert},
				})
				return
			}
			if err := s.flash.Write(w, []notify.Alert{alert}); err != nil {
				slog.Error("failed to write flash cookie", "error", err)
			}
			http.Redirect(w, r, referer(r, "/"), http.StatusSeeOther)
		}()
		next.ServeHTTP(w, r)
	})
}

// withAlerts gives every request an alert stack seeded with the alerts
// carried over from the previous redirect.
func (s *Server) withAlerts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stack := &notify.Stack{}
		if _, err := r.Cookie(notify.FlashCookie); err == nil {
			for _, a := range s.flash.Read(w, r) {
				stack.Add(a)
			}
		}
		next.ServeHTTP(w, r.WithContext(notify.WithStack(r.Context(), stack)))
	})
}

// requireReady holds back pages until the startup sequence has finished.
// Health, metrics and static assets are always served.
func (s *Server) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.startup == nil || s.startup.Ready() || exempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		data := struct {
			PageData
			Failed bool
		}{
			PageData: s.page(r, "Unavailable", ""),
			Failed:   s.startup.Err() != nil,
		}
		if !data.Failed {
			w.Header().Set("Retry-After", "1")
		}
		s.templates.Render(w, http.StatusServiceUnavailable, "unavailable.html", data)
	})
}

func exempt(path string) bool {
	return path == "/healthz" || path == "/metrics" || strings.HasPrefix(path, "/static/")
}

// limitPosts rate limits form submissions per client address. A limited
// submit is bounced back to its page with a warning.
func (s *Server) limitPosts(next http.Handler) http.Handler {
	if s.rateLimit.Limit <= 0 {
		return next
	}
	lim := limiter.New(memory.NewStore(), s.rateLimit)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		ip := lim.GetIPKey(r)
		lctx, err := lim.Get(r.Context(), ip)
		if err != nil {
			slog.Error("failed to get rate limit context", "ip", ip, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if lctx.Reached {
			slog.Warn("rate limit exceeded", "ip", ip, "limit", lctx.Limit, "remaining_requests", lctx.Remaining)
			notify.StackFrom(r.Context()).Add(notify.Alert{Kind: notify.Warning, Message: RateLimitMessage})
			w.Header().Set("Retry-After", strconv.FormatInt(max(lctx.Reset-time.Now().Unix(), 1), 10))
			s.redirect(w, r, referer(r, "/"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// referer returns the local path of the Referer header, or fallback.
func referer(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	return ref.RequestURI()
}
