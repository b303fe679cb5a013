package export

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"planner/api/internal/store"
)

// DataStore defines the interface for data access
type DataStore interface {
	GetStore(ctx context.Context, storeID int64) (store.Store, error)
	GetPlannerEntryByID(ctx context.Context, entryID int64) (store.PlannerEntry, error)
	ListStaffSchedules(ctx context.Context, entryID int64) ([]store.StaffSchedule, error)
}

// Service provides day sheet export functionality
type Service struct {
	store DataStore
}

// NewService creates a new export service
func NewService(store DataStore) *Service {
	return &Service{store: store}
}

// ExportDaySheet renders one planner entry as a printable PDF.
func (s *Service) ExportDaySheet(ctx context.Context, entryID int64) (*Result, error) {
	entry, err := s.store.GetPlannerEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}

	st, err := s.store.GetStore(ctx, entry.StoreID)
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}

	schedules, err := s.store.ListStaffSchedules(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("list staff schedules: %w", err)
	}

	data := buildTemplateData(st, entry, schedules)

	html, err := RenderDaySheetHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render day sheet: %w", err)
	}

	title := fmt.Sprintf("%s %s", st.StoreNumber, entry.Date)
	return exportPDF(html, title)
}

func buildTemplateData(st store.Store, entry store.PlannerEntry, schedules []store.StaffSchedule) TemplateData {
	data := TemplateData{
		StoreName:   st.Name,
		StoreNumber: st.StoreNumber,
		Location:    st.Location,
		Date:        entry.Date,
	}

	addAmount := func(label string, value *float64) {
		if value != nil {
			data.Metrics = append(data.Metrics, TemplateMetric{Label: label, Value: fmt.Sprintf("%.2f", *value)})
		}
	}
	addCount := func(label string, value *int) {
		if value != nil {
			data.Metrics = append(data.Metrics, TemplateMetric{Label: label, Value: fmt.Sprintf("%d", *value)})
		}
	}
	addAmount("Daily Sales", entry.DailySales)
	addAmount("WTD Actual", entry.WTDActual)
	addAmount("MTD Actual", entry.MTDActual)
	addAmount("YTD Actual", entry.YTDActual)
	addCount("AIF Service Goal", entry.AIFServiceGoal)
	addAmount("ADT Avg Transaction", entry.ADTAvgTransaction)
	addCount("NPS Score", entry.NPSScore)

	for _, p := range entry.Priorities {
		if strings.TrimSpace(p) != "" {
			data.Priorities = append(data.Priorities, p)
		}
	}

	for _, todo := range entry.Todos {
		data.Todos = append(data.Todos, TemplateChecklistItem{Label: todo.Task, Done: todo.Completed})
	}

	data.Checklists = []TemplateChecklist{
		{Title: "Daily Operations", Items: checklistItems(entry.DailyOperations)},
		{Title: "Inventory Management", Items: checklistItems(entry.InventoryManagement)},
		{Title: "Store Standards", Items: checklistItems(entry.StoreStandards)},
	}

	for _, sched := range schedules {
		data.Schedules = append(data.Schedules, TemplateSchedule{
			StaffName: sched.StaffName,
			Slot8To9:  sched.Slot8To9,
			Slot9To12: sched.Slot9To12,
			Slot12To4: sched.Slot12To4,
			Slot4To8:  sched.Slot4To8,
		})
	}

	addSection := func(title, body string) {
		if strings.TrimSpace(body) != "" {
			data.Sections = append(data.Sections, TemplateSection{Title: title, Body: body})
		}
	}
	addSection("Contests", entry.Contests)
	addSection("Upcoming Sales", entry.UpcomingSales)
	addSection("Inventory Benches", entry.InventoryBenches)
	addSection("Upcoming Education", entry.UpcomingEducation)
	addSection("Education to Sold", entry.EducationToSold)
	addSection("Social Posts", entry.SocialPosts)
	addSection("End of Day Notes", entry.EndOfDayNotes)

	return data
}

// checklistItems flattens a checklist map into label-sorted items.
func checklistItems(checklist map[string]bool) []TemplateChecklistItem {
	keys := make([]string, 0, len(checklist))
	for key := range checklist {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]TemplateChecklistItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, TemplateChecklistItem{Label: humanizeKey(key), Done: checklist[key]})
	}
	return items
}

// humanizeKey turns a camelCase checklist key into a display label,
// e.g. "reviewHuddleCalendar" becomes "Review Huddle Calendar".
func humanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
