package web

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/erazemk/trgovina/internal/insights"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
)

const (
	quickInsightLimit = 3
	scoreKeyframes    = 20
)

type insightSection struct {
	Section  insights.Section
	Title    string
	Messages []string
	Error    string
}

// sectionMessages collects the display lines of an analysis: every list
// whose key ends in _insights or recommendations, in key order.
func sectionMessages(a model.Analysis) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		if strings.HasSuffix(k, "_insights") || strings.HasSuffix(k, "recommendations") {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var out []string
	for _, k := range keys {
		out = append(out, a.Messages(k)...)
	}
	return out
}

// InsightsPage handles GET /insights.
func (s *Server) InsightsPage(w http.ResponseWriter, r *http.Request) {
	snap := s.poller.Snapshot()

	var sections []insightSection
	for _, sec := range insights.Sections {
		if sec == insights.HealthScore {
			continue
		}
		sections = append(sections, insightSection{
			Section:  sec,
			Title:    sec.Title(),
			Messages: sectionMessages(snap.Analysis(sec)),
			Error:    snap.Error(sec),
		})
	}

	var quick []model.QuickInsight
	var frames []float64
	if snap.Overview != nil {
		quick = snap.Overview.QuickInsights
		if len(quick) > quickInsightLimit {
			quick = quick[:quickInsightLimit]
		}
		frames = insights.Tween{To: snap.Overview.HealthScore.OverallScore, Round: true}.Keyframes(scoreKeyframes)
	}

	data := struct {
		PageData
		Overview      *model.Overview
		HealthError   string
		QuickInsights []model.QuickInsight
		ScoreFrames   []float64
		TweenMillis   int64
		Sections      []insightSection
		UpdatedAt     time.Time
		Loaded        bool
		Refreshing    bool
		IntervalMs    int64
	}{
		PageData:      s.page(r, "Insights", "insights"),
		Overview:      snap.Overview,
		HealthError:   snap.Error(insights.HealthScore),
		QuickInsights: quick,
		ScoreFrames:   frames,
		TweenMillis:   insights.TweenDuration.Milliseconds(),
		Sections:      sections,
		UpdatedAt:     snap.UpdatedAt,
		Loaded:        snap.Loaded(),
		Refreshing:    s.poller.Refreshing(),
		IntervalMs:    s.poller.Interval().Milliseconds(),
	}
	s.templates.Render(w, http.StatusOK, "insights.html", data)
}

// RefreshInsights handles POST /insights/refresh.
func (s *Server) RefreshInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stack := notify.StackFrom(ctx)

	switch {
	case !s.poller.Refresh(ctx):
		stack.Add(notify.Alert{Kind: notify.Info, Message: "Insights are already refreshing"})
	case len(s.poller.Snapshot().Errors) > 0:
		stack.Add(notify.Alert{Kind: notify.Warning, Message: "Some insights could not be refreshed"})
	default:
		stack.Add(notify.Alert{Kind: notify.Success, Message: "Insights refreshed successfully"})
	}
	s.redirect(w, r, "/insights")
}

// InsightsData handles GET /insights/data, the snapshot the insights page
// polls for its charts and counters.
func (s *Server) InsightsData(w http.ResponseWriter, r *http.Request) {
	snap := s.poller.Snapshot()

	errs := make(map[string]string, len(snap.Errors))
	for sec, msg := range snap.Errors {
		errs[string(sec)] = msg
	}

	resp := map[string]any{
		"success":    true,
		"refreshing": s.poller.Refreshing(),
		"charts":     s.charts.Charts(),
		"errors":     errs,
	}
	if snap.Loaded() {
		resp["updated_at"] = snap.UpdatedAt.Format(time.RFC3339)
	}
	if snap.Overview != nil {
		resp["health_score"] = snap.Overview.HealthScore
		resp["quick_insights"] = snap.Overview.QuickInsights
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.startup == nil {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	status := http.StatusOK
	if !s.startup.Ready() {
		status = http.StatusServiceUnavailable
	}
	jsonResponse(w, status, s.startup.Report())
}

