package store

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	HomeStoreID  *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Store struct {
	ID                int64
	StoreNumber       string
	Name              string
	Location          string
	IsActive          bool
	DistrictManagerID *int64
	CreatedAt         time.Time
}

// TodoItem is one line of the day sheet's todo list.
type TodoItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// Photo is the metadata for one uploaded attachment. The binary lives in
// object storage; only this record is persisted with the entry.
type Photo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Category   string    `json:"category"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// PlannerEntry is one store's day sheet. Exactly one row exists per
// (store, date); the row is created lazily on first authorized access.
type PlannerEntry struct {
	ID      int64
	StoreID int64
	Date    string // YYYY-MM-DD

	DailySales        *float64
	WTDActual         *float64
	MTDActual         *float64
	YTDActual         *float64
	AIFServiceGoal    *int
	ADTAvgTransaction *float64
	NPSScore          *int

	Contests          string
	UpcomingSales     string
	EndOfDayNotes     string
	InventoryBenches  string
	UpcomingEducation string
	EducationToSold   string
	SocialPosts       string

	Priorities          []string
	Todos               []TodoItem
	DailyOperations     map[string]bool
	InventoryManagement map[string]bool
	StoreStandards      map[string]bool
	Photos              []Photo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlannerEntryPatch carries a partial update; nil fields are left alone.
type PlannerEntryPatch struct {
	DailySales        *float64
	WTDActual         *float64
	MTDActual         *float64
	YTDActual         *float64
	AIFServiceGoal    *int
	ADTAvgTransaction *float64
	NPSScore          *int

	Contests          *string
	UpcomingSales     *string
	EndOfDayNotes     *string
	InventoryBenches  *string
	UpcomingEducation *string
	EducationToSold   *string
	SocialPosts       *string

	Priorities          []string
	Todos               []TodoItem
	DailyOperations     map[string]bool
	InventoryManagement map[string]bool
	StoreStandards      map[string]bool
}

// Shift slot values for staff schedule rows.
const (
	SlotOpen      = "Open"
	SlotScheduled = "Scheduled"
	SlotBreak     = "Break"
)

type StaffSchedule struct {
	ID             int64
	PlannerEntryID int64
	StaffName      string
	Slot8To9       string
	Slot9To12      string
	Slot12To4      string
	Slot4To8       string
}

// StoreAnalytics is a read-only monthly aggregate produced out of band.
type StoreAnalytics struct {
	ID               int64
	StoreID          int64
	Month            string // YYYY-MM
	SalesTrend       float64
	StaffPerformance float64
	GoalProgress     float64
	CreatedAt        time.Time
}

// UserStoreAssignment links a district manager to one visible store.
type UserStoreAssignment struct {
	ID      int64
	UserID  int64
	StoreID int64
}

// StoreActivity is a per-store activity summary for management reports.
type StoreActivity struct {
	StoreID       int64
	StoreNumber   string
	Name          string
	Location      string
	IsActive      bool
	EntriesCount  int
	LastEntryDate *string
}
