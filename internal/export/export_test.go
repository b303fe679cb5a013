package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"planner/api/internal/store"
)

func TestHumanizeKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"reviewHuddleCalendar", "Review Huddle Calendar"},
		{"pullProcessOmniOrders", "Pull Process Omni Orders"},
		{"cleanFloors", "Clean Floors"},
		{"emptyTrashBins", "Empty Trash Bins"},
		{"x", "X"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := humanizeKey(tt.input); got != tt.expected {
			t.Errorf("humanizeKey(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1042 2025-06-01", "1042-2025-06-01"},
		{"weird / name!", "weird--name"},
		{"", "day-sheet"},
		{strings.Repeat("a", 100), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc", "abc"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"<p>", "%3Cp%3E"},
	}
	for _, tt := range tests {
		if got := percentEncodeForDataURL(tt.input); got != tt.expected {
			t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderDaySheetHTML(t *testing.T) {
	sales := 4200.50
	nps := 72
	entry := store.PlannerEntry{
		ID:         1,
		StoreID:    7,
		Date:       "2025-06-01",
		DailySales: &sales,
		NPSScore:   &nps,
		Contests:   "June demo contest",
		Priorities: []string{"Reset front table", "", "Call list"},
		Todos: []store.TodoItem{
			{Task: "Schedule Team Meeting", Completed: true},
			{Task: "Update Product Displays", Completed: false},
		},
		DailyOperations: map[string]bool{"reviewHuddleCalendar": true, "checkEndOfDayNotes": false},
	}
	st := store.Store{ID: 7, StoreNumber: "1042", Name: "Downtown", Location: "12 Main St"}
	schedules := []store.StaffSchedule{
		{StaffName: "Amaya", Slot8To9: "scheduled", Slot9To12: "scheduled", Slot12To4: "break", Slot4To8: "open"},
	}

	html, err := RenderDaySheetHTML(buildTemplateData(st, entry, schedules))
	if err != nil {
		t.Fatalf("RenderDaySheetHTML failed: %v", err)
	}

	for _, want := range []string{
		"Downtown",
		"1042",
		"2025-06-01",
		"4200.50",
		"June demo contest",
		"Review Huddle Calendar",
		"Schedule Team Meeting",
		"Amaya",
		"Reset front table",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}

	// Blank priority lines are dropped
	if strings.Count(html, "<li>")+strings.Count(html, "<li ") < 4 {
		t.Error("expected priorities, todos, and checklist items rendered as list items")
	}
}

func TestRenderDaySheetHTMLEscapes(t *testing.T) {
	entry := store.PlannerEntry{
		ID:       1,
		StoreID:  7,
		Date:     "2025-06-01",
		Contests: "<script>alert('x')</script>",
	}
	st := store.Store{ID: 7, StoreNumber: "1042", Name: "Downtown"}

	html, err := RenderDaySheetHTML(buildTemplateData(st, entry, nil))
	if err != nil {
		t.Fatalf("RenderDaySheetHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("free-text sections must be HTML-escaped")
	}
}

func TestBuildAnalyticsWorkbook(t *testing.T) {
	rows := []AnalyticsRow{
		{StoreNumber: "1042", StoreName: "Downtown", Month: "2025-05", SalesTrend: 4.2, StaffPerformance: 81, GoalProgress: 0.82},
		{StoreNumber: "2087", StoreName: "Riverside", Month: "2025-05", SalesTrend: -0.5, StaffPerformance: 67, GoalProgress: 0.67},
	}

	result, err := BuildAnalyticsWorkbook(rows)
	if err != nil {
		t.Fatalf("BuildAnalyticsWorkbook failed: %v", err)
	}
	if result.Filename != "store-analytics.xlsx" {
		t.Errorf("unexpected filename %s", result.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Analytics", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "1042" {
		t.Errorf("expected store number 1042 in A2, got %q", got)
	}

	header, err := f.GetCellValue("Analytics", "D1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Sales Trend" {
		t.Errorf("expected Sales Trend header, got %q", header)
	}

	trend, err := f.GetCellValue("Analytics", "D2")
	if err != nil {
		t.Fatalf("read trend cell: %v", err)
	}
	if trend != "4.2" {
		t.Errorf("expected numeric trend 4.2 in D2, got %q", trend)
	}
}
