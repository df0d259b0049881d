package model

import (
	"encoding/json"
	"testing"
)

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{StatusSold, "bg-success"},
		{StatusListed, "bg-info"},
		{StatusInventory, "bg-primary"},
		{StatusKept, "bg-warning"},
		// Unknown statuses fall back to neutral.
		{"archived", "bg-secondary"},
		{"", "bg-secondary"},
	}

	for _, tt := range tests {
		got := StatusBadge(tt.status)
		if got != tt.expected {
			t.Errorf("StatusBadge(%q) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestConditionBadge(t *testing.T) {
	tests := []struct {
		condition string
		expected  string
	}{
		{ConditionNWT, "bg-success"},
		{ConditionNWOT, "bg-info"},
		{ConditionGood, "bg-primary"},
		{ConditionFair, "bg-warning"},
		{ConditionPoor, "bg-danger"},
		{"Good", "bg-secondary"},
		{"", "bg-secondary"},
	}

	for _, tt := range tests {
		got := ConditionBadge(tt.condition)
		if got != tt.expected {
			t.Errorf("ConditionBadge(%q) = %q, want %q", tt.condition, got, tt.expected)
		}
	}
}

func TestCanSell(t *testing.T) {
	for _, status := range ListingStatuses {
		item := Item{SKU: "A1", ListingStatus: status}
		want := status != StatusSold
		if item.CanSell() != want {
			t.Errorf("CanSell with status %q = %v, want %v", status, item.CanSell(), want)
		}
	}
}

func TestQuickInsightAlertKind(t *testing.T) {
	tests := []struct {
		typ      string
		expected string
	}{
		{"alert", "danger"},
		{"warning", "warning"},
		{"success", "success"},
		{"", "success"},
	}

	for _, tt := range tests {
		got := QuickInsight{Type: tt.typ}.AlertKind()
		if got != tt.expected {
			t.Errorf("AlertKind(%q) = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestAnalysisMessages(t *testing.T) {
	var a Analysis
	payload := `{
		"insights": ["Dresses sell fastest", {"message": "Raise denim prices"}, {"title": "Clear old stock"}, 3],
		"summary": {"total": 4}
	}`
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := a.Messages("insights")
	want := []string{"Dresses sell fastest", "Raise denim prices", "Clear old stock"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if a.Messages("summary") != nil {
		t.Error("expected nil for a non-list section")
	}
	if a.Messages("missing") != nil {
		t.Error("expected nil for a missing section")
	}
}
