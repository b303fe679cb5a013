package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"planner/api/internal/auth"
	"planner/api/internal/config"
	"planner/api/internal/rbac"
	"planner/api/internal/store"
)

type fakeStore struct {
	getUserByIDFn           func(context.Context, int64) (store.User, error)
	listUsersFn             func(context.Context) ([]store.User, error)
	listUsersByRoleFn       func(context.Context, string) ([]store.User, error)
	countUsersFn            func(context.Context) (int, error)
	updateUserRoleFn        func(context.Context, int64, string, *int64) (store.User, error)
	listAssignedStoreIDsFn  func(context.Context, int64) ([]int64, error)
	addStoreAssignmentFn    func(context.Context, int64, int64) error
	listStoresFn            func(context.Context, rbac.Scope) ([]store.Store, error)
	getStoreFn              func(context.Context, int64) (store.Store, error)
	createStoreFn           func(context.Context, store.Store) (store.Store, error)
	assignDistrictManagerFn func(context.Context, int64, int64) (store.Store, error)
	getPlannerEntryFn       func(context.Context, int64, string) (store.PlannerEntry, error)
	getPlannerEntryByIDFn   func(context.Context, int64) (store.PlannerEntry, error)
	createPlannerEntryFn    func(context.Context, store.PlannerEntry) (store.PlannerEntry, error)
	updatePlannerEntryFn    func(context.Context, int64, store.PlannerEntryPatch) (store.PlannerEntry, error)
	listEntriesForStoreFn   func(context.Context, int64, int) ([]store.PlannerEntry, error)
	listStaffSchedulesFn    func(context.Context, int64) ([]store.StaffSchedule, error)
	getStaffScheduleFn      func(context.Context, int64) (store.StaffSchedule, error)
	createStaffScheduleFn   func(context.Context, store.StaffSchedule) (store.StaffSchedule, error)
	updateStaffScheduleFn   func(context.Context, int64, store.StaffSchedule) (store.StaffSchedule, error)
	deleteStaffScheduleFn   func(context.Context, int64) error
	listAnalyticsFn         func(context.Context, rbac.Scope) ([]store.StoreAnalytics, error)
	insertAnalyticsFn       func(context.Context, store.StoreAnalytics) (store.StoreAnalytics, error)
	storeActivitySinceFn    func(context.Context, rbac.Scope, string) ([]store.StoreActivity, error)
	updateEntryPhotosFn     func(context.Context, int64, []store.Photo) (store.PlannerEntry, error)
	removeStoreAssignmentFn func(context.Context, int64, int64) error
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) GetUserByID(ctx context.Context, userID int64) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) ListUsers(ctx context.Context) ([]store.User, error) {
	if f.listUsersFn != nil {
		return f.listUsersFn(ctx)
	}
	return nil, nil
}
func (f *fakeStore) ListUsersByRole(ctx context.Context, role string) ([]store.User, error) {
	if f.listUsersByRoleFn != nil {
		return f.listUsersByRoleFn(ctx, role)
	}
	return nil, nil
}
func (f *fakeStore) CountUsers(ctx context.Context) (int, error) {
	if f.countUsersFn != nil {
		return f.countUsersFn(ctx)
	}
	return 1, nil
}
func (f *fakeStore) UpdateUserRole(ctx context.Context, userID int64, role string, homeStoreID *int64) (store.User, error) {
	if f.updateUserRoleFn != nil {
		return f.updateUserRoleFn(ctx, userID, role, homeStoreID)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) ListAssignedStoreIDs(ctx context.Context, userID int64) ([]int64, error) {
	if f.listAssignedStoreIDsFn != nil {
		return f.listAssignedStoreIDsFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) AddStoreAssignment(ctx context.Context, userID, storeID int64) error {
	if f.addStoreAssignmentFn != nil {
		return f.addStoreAssignmentFn(ctx, userID, storeID)
	}
	return nil
}
func (f *fakeStore) RemoveStoreAssignment(ctx context.Context, userID, storeID int64) error {
	if f.removeStoreAssignmentFn != nil {
		return f.removeStoreAssignmentFn(ctx, userID, storeID)
	}
	return nil
}
func (f *fakeStore) ListStores(ctx context.Context, scope rbac.Scope) ([]store.Store, error) {
	if f.listStoresFn != nil {
		return f.listStoresFn(ctx, scope)
	}
	return nil, nil
}
func (f *fakeStore) GetStore(ctx context.Context, storeID int64) (store.Store, error) {
	if f.getStoreFn != nil {
		return f.getStoreFn(ctx, storeID)
	}
	return store.Store{}, sql.ErrNoRows
}
func (f *fakeStore) CreateStore(ctx context.Context, item store.Store) (store.Store, error) {
	if f.createStoreFn != nil {
		return f.createStoreFn(ctx, item)
	}
	return item, nil
}
func (f *fakeStore) AssignDistrictManager(ctx context.Context, storeID, managerID int64) (store.Store, error) {
	if f.assignDistrictManagerFn != nil {
		return f.assignDistrictManagerFn(ctx, storeID, managerID)
	}
	return store.Store{}, sql.ErrNoRows
}
func (f *fakeStore) GetPlannerEntry(ctx context.Context, storeID int64, date string) (store.PlannerEntry, error) {
	if f.getPlannerEntryFn != nil {
		return f.getPlannerEntryFn(ctx, storeID, date)
	}
	return store.PlannerEntry{}, sql.ErrNoRows
}
func (f *fakeStore) GetPlannerEntryByID(ctx context.Context, entryID int64) (store.PlannerEntry, error) {
	if f.getPlannerEntryByIDFn != nil {
		return f.getPlannerEntryByIDFn(ctx, entryID)
	}
	return store.PlannerEntry{}, sql.ErrNoRows
}
func (f *fakeStore) CreatePlannerEntry(ctx context.Context, entry store.PlannerEntry) (store.PlannerEntry, error) {
	if f.createPlannerEntryFn != nil {
		return f.createPlannerEntryFn(ctx, entry)
	}
	return entry, nil
}
func (f *fakeStore) UpdatePlannerEntry(ctx context.Context, entryID int64, patch store.PlannerEntryPatch) (store.PlannerEntry, error) {
	if f.updatePlannerEntryFn != nil {
		return f.updatePlannerEntryFn(ctx, entryID, patch)
	}
	return store.PlannerEntry{}, sql.ErrNoRows
}
func (f *fakeStore) UpdatePlannerEntryPhotos(ctx context.Context, entryID int64, photoList []store.Photo) (store.PlannerEntry, error) {
	if f.updateEntryPhotosFn != nil {
		return f.updateEntryPhotosFn(ctx, entryID, photoList)
	}
	return store.PlannerEntry{}, sql.ErrNoRows
}
func (f *fakeStore) ListPlannerEntriesForStore(ctx context.Context, storeID int64, limit int) ([]store.PlannerEntry, error) {
	if f.listEntriesForStoreFn != nil {
		return f.listEntriesForStoreFn(ctx, storeID, limit)
	}
	return nil, nil
}
func (f *fakeStore) ListStaffSchedules(ctx context.Context, entryID int64) ([]store.StaffSchedule, error) {
	if f.listStaffSchedulesFn != nil {
		return f.listStaffSchedulesFn(ctx, entryID)
	}
	return nil, nil
}
func (f *fakeStore) GetStaffSchedule(ctx context.Context, scheduleID int64) (store.StaffSchedule, error) {
	if f.getStaffScheduleFn != nil {
		return f.getStaffScheduleFn(ctx, scheduleID)
	}
	return store.StaffSchedule{}, sql.ErrNoRows
}
func (f *fakeStore) CreateStaffSchedule(ctx context.Context, item store.StaffSchedule) (store.StaffSchedule, error) {
	if f.createStaffScheduleFn != nil {
		return f.createStaffScheduleFn(ctx, item)
	}
	return item, nil
}
func (f *fakeStore) UpdateStaffSchedule(ctx context.Context, scheduleID int64, item store.StaffSchedule) (store.StaffSchedule, error) {
	if f.updateStaffScheduleFn != nil {
		return f.updateStaffScheduleFn(ctx, scheduleID, item)
	}
	return item, nil
}
func (f *fakeStore) DeleteStaffSchedule(ctx context.Context, scheduleID int64) error {
	if f.deleteStaffScheduleFn != nil {
		return f.deleteStaffScheduleFn(ctx, scheduleID)
	}
	return nil
}
func (f *fakeStore) ListAnalytics(ctx context.Context, scope rbac.Scope) ([]store.StoreAnalytics, error) {
	if f.listAnalyticsFn != nil {
		return f.listAnalyticsFn(ctx, scope)
	}
	return nil, nil
}
func (f *fakeStore) InsertAnalytics(ctx context.Context, item store.StoreAnalytics) (store.StoreAnalytics, error) {
	if f.insertAnalyticsFn != nil {
		return f.insertAnalyticsFn(ctx, item)
	}
	return item, nil
}
func (f *fakeStore) StoreActivitySince(ctx context.Context, scope rbac.Scope, sinceDate string) ([]store.StoreActivity, error) {
	if f.storeActivitySinceFn != nil {
		return f.storeActivitySinceFn(ctx, scope, sinceDate)
	}
	return nil, nil
}

// fakeSessions keeps refresh sessions and the denylist in memory.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]store.User
	revoked  map[string]bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions: make(map[string]store.User),
		revoked:  make(map[string]bool),
	}
}

func (f *fakeSessions) SaveRefreshSession(_ context.Context, tokenHash string, user store.User, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[tokenHash] = user
	return nil
}
func (f *fakeSessions) LookupRefreshSession(_ context.Context, tokenHash string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.sessions[tokenHash]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}
func (f *fakeSessions) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, tokenHash)
	return nil
}
func (f *fakeSessions) RevokeAccessToken(_ context.Context, jti string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = true
	return nil
}
func (f *fakeSessions) IsAccessTokenRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

func newTestService(fs *fakeStore) *Service {
	return &Service{
		cfg: config.Config{
			JWTSecret:  "test-secret",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
		},
		store:    fs,
		sessions: newFakeSessions(),
	}
}

func sessionFor(role string, userID int64, homeStoreID *int64) Session {
	return Session{
		UserID:      userID,
		Username:    "tester",
		Role:        role,
		HomeStoreID: homeStoreID,
		JTI:         "jti-test",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func requireForbidden(t *testing.T, err error) {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Status != http.StatusForbidden || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("expected 403 FORBIDDEN, got %d %s", domainErr.Status, domainErr.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	user := store.User{ID: 7, Username: "jrivera", Role: "store_associate", HomeStoreID: int64Ptr(1)}
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, id int64) (store.User, error) {
			if id != 7 {
				return store.User{}, sql.ErrNoRows
			}
			return user, nil
		},
	}
	svc := newTestService(fs)
	ctx := context.Background()

	issued, err := svc.issueSession(ctx, user)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if issued.RefreshToken == "" || issued.Token == "" {
		t.Fatalf("expected both tokens, got %+v", issued)
	}

	resolved, err := svc.SessionFromToken(ctx, issued.Token)
	if err != nil {
		t.Fatalf("session from token: %v", err)
	}
	if resolved.UserID != 7 || resolved.Role != "store_associate" {
		t.Fatalf("unexpected session %+v", resolved)
	}
	if resolved.HomeStoreID == nil || *resolved.HomeStoreID != 1 {
		t.Fatalf("expected home store 1, got %v", resolved.HomeStoreID)
	}

	rotated, err := svc.Refresh(ctx, issued.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == issued.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if _, err := svc.Refresh(ctx, issued.RefreshToken); err == nil {
		t.Fatal("expected old refresh token to be dead after rotation")
	}

	if err := svc.Logout(ctx, rotated, rotated.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.SessionFromToken(ctx, rotated.Token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected revoked access token to be invalid, got %v", err)
	}
	if _, err := svc.Refresh(ctx, rotated.RefreshToken); err == nil {
		t.Fatal("expected revoked refresh token to be dead")
	}
}

func TestListStoresScoping(t *testing.T) {
	var captured *rbac.Scope
	fs := &fakeStore{
		listStoresFn: func(_ context.Context, scope rbac.Scope) ([]store.Store, error) {
			captured = &scope
			return []store.Store{{ID: 1, StoreNumber: "1042", Name: "Downtown Flagship"}}, nil
		},
		listAssignedStoreIDsFn: func(context.Context, int64) ([]int64, error) {
			return []int64{1, 2}, nil
		},
	}
	svc := newTestService(fs)
	ctx := context.Background()

	t.Run("associate scoped to home store", func(t *testing.T) {
		captured = nil
		items, err := svc.ListStores(ctx, sessionFor("store_associate", 7, int64Ptr(1)))
		if err != nil {
			t.Fatalf("list stores: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 store, got %d", len(items))
		}
		if captured == nil || captured.All || len(captured.IDs) != 1 || captured.IDs[0] != 1 {
			t.Fatalf("expected scope [1], got %+v", captured)
		}
	})

	t.Run("associate without home store sees nothing", func(t *testing.T) {
		captured = nil
		items, err := svc.ListStores(ctx, sessionFor("store_associate", 8, nil))
		if err != nil {
			t.Fatalf("list stores: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty list, got %d", len(items))
		}
		if captured != nil {
			t.Fatal("store query should be skipped for an empty scope")
		}
	})

	t.Run("district manager scoped to assignments", func(t *testing.T) {
		captured = nil
		if _, err := svc.ListStores(ctx, sessionFor("district_manager", 9, nil)); err != nil {
			t.Fatalf("list stores: %v", err)
		}
		if captured == nil || captured.All || len(captured.IDs) != 2 {
			t.Fatalf("expected scope [1 2], got %+v", captured)
		}
	})

	t.Run("executive sees all", func(t *testing.T) {
		captured = nil
		if _, err := svc.ListStores(ctx, sessionFor("business_executive", 10, nil)); err != nil {
			t.Fatalf("list stores: %v", err)
		}
		if captured == nil || !captured.All {
			t.Fatalf("expected all-stores scope, got %+v", captured)
		}
	})
}

func TestGetStoreDeniesOutsideScope(t *testing.T) {
	fs := &fakeStore{
		getStoreFn: func(_ context.Context, id int64) (store.Store, error) {
			return store.Store{ID: id, StoreNumber: "2318"}, nil
		},
		listAssignedStoreIDsFn: func(context.Context, int64) ([]int64, error) {
			return []int64{1}, nil
		},
	}
	svc := newTestService(fs)
	ctx := context.Background()

	_, err := svc.GetStore(ctx, sessionFor("store_associate", 7, int64Ptr(1)), 2)
	requireForbidden(t, err)

	_, err = svc.GetStore(ctx, sessionFor("district_manager", 9, nil), 2)
	requireForbidden(t, err)

	if _, err := svc.GetStore(ctx, sessionFor("district_manager", 9, nil), 1); err != nil {
		t.Fatalf("assigned store should be readable: %v", err)
	}
}

func TestManagementRolesCannotTouchDaySheets(t *testing.T) {
	loaded := false
	fs := &fakeStore{
		getPlannerEntryByIDFn: func(_ context.Context, id int64) (store.PlannerEntry, error) {
			loaded = true
			return store.PlannerEntry{ID: id, StoreID: 1}, nil
		},
		listAssignedStoreIDsFn: func(context.Context, int64) ([]int64, error) {
			return []int64{1}, nil
		},
	}
	svc := newTestService(fs)
	ctx := context.Background()

	for _, role := range []string{"district_manager", "business_executive"} {
		t.Run(role, func(t *testing.T) {
			loaded = false
			_, err := svc.GetEntry(ctx, sessionFor(role, 9, nil), 1, "2026-09-01")
			requireForbidden(t, err)

			_, err = svc.GetOrCreateEntry(ctx, sessionFor(role, 9, nil), 1, "2026-09-01")
			requireForbidden(t, err)

			_, err = svc.UpdateEntry(ctx, sessionFor(role, 9, nil), 42, UpdateEntryInput{})
			requireForbidden(t, err)
			if loaded {
				t.Fatal("denial must not depend on loading the entry")
			}

			_, err = svc.ListSchedules(ctx, sessionFor(role, 9, nil), 42)
			requireForbidden(t, err)
		})
	}

	// Super admin override.
	if _, err := svc.UpdateEntry(ctx, sessionFor("super_admin", 1, nil), 42, UpdateEntryInput{}); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("super admin update should reach the store: %v", err)
		}
	}
}

func TestGetOrCreateEntryStampsDefaults(t *testing.T) {
	var created *store.PlannerEntry
	fs := &fakeStore{
		getStoreFn: func(_ context.Context, id int64) (store.Store, error) {
			return store.Store{ID: id}, nil
		},
		createPlannerEntryFn: func(_ context.Context, entry store.PlannerEntry) (store.PlannerEntry, error) {
			entry.ID = 5
			created = &entry
			return entry, nil
		},
	}
	svc := newTestService(fs)

	item, err := svc.GetOrCreateEntry(context.Background(), sessionFor("store_associate", 7, int64Ptr(1)), 1, "2026-09-01")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if created == nil {
		t.Fatal("expected a new entry")
	}
	if len(created.Priorities) != 3 {
		t.Fatalf("expected 3 blank priority slots, got %d", len(created.Priorities))
	}
	if len(created.Todos) != 5 {
		t.Fatalf("expected 5 default todos, got %d", len(created.Todos))
	}
	if !hasKey(created.DailyOperations, "reviewHuddleCalendar") ||
		!hasKey(created.InventoryManagement, "reviewDamageLog") ||
		!hasKey(created.StoreStandards, "emptyTrashBins") {
		t.Fatalf("checklist defaults missing: %+v", created)
	}
	for key, done := range created.DailyOperations {
		if done {
			t.Fatalf("checklist item %s should start unchecked", key)
		}
	}
	if item["id"] != int64(5) {
		t.Fatalf("expected payload id 5, got %v", item["id"])
	}

	if _, err := svc.GetOrCreateEntry(context.Background(), sessionFor("store_associate", 7, int64Ptr(1)), 1, "not-a-date"); err == nil {
		t.Fatal("expected invalid date to be rejected")
	}
}

func TestGetOrCreateEntryIsIdempotent(t *testing.T) {
	existing := store.PlannerEntry{ID: 5, StoreID: 1, Date: "2026-09-01", EndOfDayNotes: "left the safe count with Dana"}
	createCalls := 0
	fs := &fakeStore{
		getStoreFn: func(_ context.Context, id int64) (store.Store, error) {
			return store.Store{ID: id}, nil
		},
		getPlannerEntryFn: func(_ context.Context, storeID int64, date string) (store.PlannerEntry, error) {
			return existing, nil
		},
		createPlannerEntryFn: func(_ context.Context, entry store.PlannerEntry) (store.PlannerEntry, error) {
			createCalls++
			return entry, nil
		},
	}
	svc := newTestService(fs)

	item, err := svc.GetOrCreateEntry(context.Background(), sessionFor("store_associate", 7, int64Ptr(1)), 1, "2026-09-01")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if createCalls != 0 {
		t.Fatal("existing entry must not be recreated")
	}
	if item["endOfDayNotes"] != "left the safe count with Dana" {
		t.Fatalf("expected the existing entry back, got %v", item["endOfDayNotes"])
	}
}

func TestUpdateEntryCrossStoreDenied(t *testing.T) {
	fs := &fakeStore{
		getPlannerEntryByIDFn: func(_ context.Context, id int64) (store.PlannerEntry, error) {
			return store.PlannerEntry{ID: id, StoreID: 2}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.UpdateEntry(context.Background(), sessionFor("store_associate", 7, int64Ptr(1)), 42, UpdateEntryInput{})
	requireForbidden(t, err)
}

func TestAnalyticsScopeIntersection(t *testing.T) {
	var captured *rbac.Scope
	fs := &fakeStore{
		listAnalyticsFn: func(_ context.Context, scope rbac.Scope) ([]store.StoreAnalytics, error) {
			captured = &scope
			return []store.StoreAnalytics{}, nil
		},
		listAssignedStoreIDsFn: func(context.Context, int64) ([]int64, error) {
			return []int64{1, 2}, nil
		},
	}
	svc := newTestService(fs)
	ctx := context.Background()

	t.Run("associate denied", func(t *testing.T) {
		_, err := svc.Analytics(ctx, sessionFor("store_associate", 7, int64Ptr(1)), nil)
		requireForbidden(t, err)
	})

	t.Run("manager request intersected with assignments", func(t *testing.T) {
		captured = nil
		if _, err := svc.Analytics(ctx, sessionFor("district_manager", 9, nil), []int64{2, 3}); err != nil {
			t.Fatalf("analytics: %v", err)
		}
		if captured == nil || captured.All || len(captured.IDs) != 1 || captured.IDs[0] != 2 {
			t.Fatalf("expected scope [2], got %+v", captured)
		}
	})

	t.Run("manager request entirely outside assignments", func(t *testing.T) {
		captured = nil
		items, err := svc.Analytics(ctx, sessionFor("district_manager", 9, nil), []int64{3, 4})
		if err != nil {
			t.Fatalf("analytics: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty result, got %d", len(items))
		}
		if captured != nil {
			t.Fatal("query should be skipped for an empty scope")
		}
	})

	t.Run("executive passes requested ids through", func(t *testing.T) {
		captured = nil
		if _, err := svc.Analytics(ctx, sessionFor("business_executive", 10, nil), []int64{3, 4}); err != nil {
			t.Fatalf("analytics: %v", err)
		}
		if captured == nil || captured.All || len(captured.IDs) != 2 {
			t.Fatalf("expected scope [3 4], got %+v", captured)
		}
	})
}

func TestInvalidStoredRoleFailsClosed(t *testing.T) {
	svc := newTestService(&fakeStore{})
	_, err := svc.ListStores(context.Background(), sessionFor("regional_overlord", 3, nil))
	if !errors.Is(err, rbac.ErrInvalidRole) {
		t.Fatalf("expected invalid role error, got %v", err)
	}

	status, code, _, _ := mapError(err)
	if status != http.StatusInternalServerError || code != "INVALID_ROLE" {
		t.Fatalf("expected 500 INVALID_ROLE, got %d %s", status, code)
	}
}

func TestScheduleValidation(t *testing.T) {
	fs := &fakeStore{
		getPlannerEntryByIDFn: func(_ context.Context, id int64) (store.PlannerEntry, error) {
			return store.PlannerEntry{ID: id, StoreID: 1}, nil
		},
	}
	svc := newTestService(fs)
	session := sessionFor("store_associate", 7, int64Ptr(1))

	if _, err := svc.CreateSchedule(context.Background(), session, 5, ScheduleInput{StaffName: "   "}); err == nil {
		t.Fatal("expected blank staff name to be rejected")
	}
	if _, err := svc.CreateSchedule(context.Background(), session, 5, ScheduleInput{StaffName: "Sam", Slot8To9: "Lunch"}); err == nil {
		t.Fatal("expected unknown slot value to be rejected")
	}

	item, err := svc.CreateSchedule(context.Background(), session, 5, ScheduleInput{StaffName: "Sam", Slot9To12: store.SlotScheduled})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if item["slot8to9"] != store.SlotOpen {
		t.Fatalf("empty slots should default to Open, got %v", item["slot8to9"])
	}
	if item["slot9to12"] != store.SlotScheduled {
		t.Fatalf("expected Scheduled, got %v", item["slot9to12"])
	}
}

func TestAssignStoreRequiresDistrictManager(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, id int64) (store.User, error) {
			return store.User{ID: id, Role: "store_associate"}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.AssignStore(context.Background(), sessionFor("super_admin", 1, nil), 1, 7)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	_, err = svc.AssignStore(context.Background(), sessionFor("district_manager", 9, nil), 1, 7)
	requireForbidden(t, err)
}

func TestAssignStoreVisibleToManagerImmediately(t *testing.T) {
	stores := map[int64]store.Store{
		1: {ID: 1, StoreNumber: "1042", Name: "Downtown"},
		2: {ID: 2, StoreNumber: "2318", Name: "Riverside"},
	}
	assigned := []int64{1}

	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, id int64) (store.User, error) {
			return store.User{ID: id, Role: "district_manager"}, nil
		},
		assignDistrictManagerFn: func(_ context.Context, storeID, managerID int64) (store.Store, error) {
			if managerID != 9 {
				t.Fatalf("unexpected manager id %d", managerID)
			}
			assigned = append(assigned, storeID)
			item := stores[storeID]
			item.DistrictManagerID = &managerID
			stores[storeID] = item
			return item, nil
		},
		listAssignedStoreIDsFn: func(_ context.Context, userID int64) ([]int64, error) {
			return assigned, nil
		},
		listStoresFn: func(_ context.Context, scope rbac.Scope) ([]store.Store, error) {
			var out []store.Store
			for _, id := range scope.IDs {
				if item, ok := stores[id]; ok {
					out = append(out, item)
				}
			}
			return out, nil
		},
	}
	svc := newTestService(fs)
	manager := sessionFor("district_manager", 9, nil)

	before, err := svc.ListStores(context.Background(), manager)
	if err != nil {
		t.Fatalf("list stores before assignment: %v", err)
	}
	if len(before) != 1 {
		t.Fatalf("expected 1 store before assignment, got %d", len(before))
	}

	if _, err := svc.AssignStore(context.Background(), sessionFor("super_admin", 1, nil), 2, 9); err != nil {
		t.Fatalf("assign store: %v", err)
	}

	after, err := svc.ListStores(context.Background(), manager)
	if err != nil {
		t.Fatalf("list stores after assignment: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected assignment to be visible immediately, got %d stores", len(after))
	}
	seen := map[any]bool{}
	for _, item := range after {
		seen[item["id"]] = true
	}
	if !seen[int64(2)] {
		t.Fatalf("newly assigned store missing from manager's list: %v", after)
	}
}

func TestSearchUnavailableWithoutBackend(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.Search(context.Background(), sessionFor("district_manager", 9, nil), SearchInput{Text: "holiday"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "SEARCH_UNAVAILABLE" {
		t.Fatalf("expected SEARCH_UNAVAILABLE without a backend, got %v", err)
	}
}

func hasKey(m map[string]bool, key string) bool {
	_, ok := m[key]
	return ok
}
