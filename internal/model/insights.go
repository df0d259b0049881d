package model

import "encoding/json"

// HealthScore is the server-computed business health score.
type HealthScore struct {
	OverallScore    float64  `json:"overall_score"`
	Status          string   `json:"status"`
	RevenueScore    float64  `json:"revenue_score"`
	InventoryScore  float64  `json:"inventory_score"`
	ProfitScore     float64  `json:"profit_score"`
	VelocityScore   float64  `json:"velocity_score"`
	Recommendations []string `json:"recommendations"`
}

// QuickInsight is a short actionable insight shown on the insights page.
type QuickInsight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// AlertKind maps the insight type to the alert style it is shown with.
func (q QuickInsight) AlertKind() string {
	switch q.Type {
	case "alert":
		return "danger"
	case "warning":
		return "warning"
	default:
		return "success"
	}
}

// Overview is the health score payload.
type Overview struct {
	HealthScore   HealthScore    `json:"health_score"`
	QuickInsights []QuickInsight `json:"quick_insights"`
}

// Analysis is one analytics payload kept as named JSON sections. Its shape
// is owned by the server; only chart sections and insight lists are read.
type Analysis map[string]json.RawMessage

// Messages decodes the named section as a list of display lines. Entries
// may be plain strings or objects carrying a message, description or title.
// A missing or malformed section yields nil.
func (a Analysis) Messages(key string) []string {
	raw, ok := a[key]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var out []string
	for _, e := range entries {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Message     string `json:"message"`
			Description string `json:"description"`
			Title       string `json:"title"`
		}
		if err := json.Unmarshal(e, &obj); err != nil {
			continue
		}
		switch {
		case obj.Message != "":
			out = append(out, obj.Message)
		case obj.Description != "":
			out = append(out, obj.Description)
		case obj.Title != "":
			out = append(out, obj.Title)
		}
	}
	return out
}
