package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"planner/api/internal/auth"
	"planner/api/internal/authpw"
	"planner/api/internal/config"
	"planner/api/internal/email"
	"planner/api/internal/export"
	"planner/api/internal/photos"
	"planner/api/internal/rbac"
	"planner/api/internal/search"
	"planner/api/internal/store"
	"planner/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       int64
	Username     string
	FirstName    string
	LastName     string
	Role         string
	HomeStoreID  *int64
	JTI          string
	ExpiresAt    time.Time
}

type dataStore interface {
	Ping(ctx context.Context) error

	GetUserByID(ctx context.Context, userID int64) (store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]store.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUserRole(ctx context.Context, userID int64, role string, homeStoreID *int64) (store.User, error)
	ListAssignedStoreIDs(ctx context.Context, userID int64) ([]int64, error)
	AddStoreAssignment(ctx context.Context, userID, storeID int64) error
	RemoveStoreAssignment(ctx context.Context, userID, storeID int64) error

	ListStores(ctx context.Context, scope rbac.Scope) ([]store.Store, error)
	GetStore(ctx context.Context, storeID int64) (store.Store, error)
	CreateStore(ctx context.Context, item store.Store) (store.Store, error)
	AssignDistrictManager(ctx context.Context, storeID, managerID int64) (store.Store, error)

	GetPlannerEntry(ctx context.Context, storeID int64, date string) (store.PlannerEntry, error)
	GetPlannerEntryByID(ctx context.Context, entryID int64) (store.PlannerEntry, error)
	CreatePlannerEntry(ctx context.Context, entry store.PlannerEntry) (store.PlannerEntry, error)
	UpdatePlannerEntry(ctx context.Context, entryID int64, patch store.PlannerEntryPatch) (store.PlannerEntry, error)
	UpdatePlannerEntryPhotos(ctx context.Context, entryID int64, photoList []store.Photo) (store.PlannerEntry, error)
	ListPlannerEntriesForStore(ctx context.Context, storeID int64, limit int) ([]store.PlannerEntry, error)

	ListStaffSchedules(ctx context.Context, entryID int64) ([]store.StaffSchedule, error)
	GetStaffSchedule(ctx context.Context, scheduleID int64) (store.StaffSchedule, error)
	CreateStaffSchedule(ctx context.Context, item store.StaffSchedule) (store.StaffSchedule, error)
	UpdateStaffSchedule(ctx context.Context, scheduleID int64, item store.StaffSchedule) (store.StaffSchedule, error)
	DeleteStaffSchedule(ctx context.Context, scheduleID int64) error

	ListAnalytics(ctx context.Context, scope rbac.Scope) ([]store.StoreAnalytics, error)
	InsertAnalytics(ctx context.Context, item store.StoreAnalytics) (store.StoreAnalytics, error)
	StoreActivitySince(ctx context.Context, scope rbac.Scope, sinceDate string) ([]store.StoreActivity, error)
}

// sessionStore holds refresh sessions and the access-token denylist.
// Backed by Redis when configured, by Postgres otherwise.
type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, user store.User, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// pgSessions adapts the Postgres store to the sessionStore shape.
type pgSessions struct {
	db *store.PostgresStore
}

func (p pgSessions) SaveRefreshSession(ctx context.Context, tokenHash string, user store.User, expiresAt time.Time) error {
	return p.db.SaveRefreshSession(ctx, tokenHash, user.ID, expiresAt)
}
func (p pgSessions) LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error) {
	return p.db.LookupRefreshSession(ctx, tokenHash)
}
func (p pgSessions) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	return p.db.RevokeRefreshSession(ctx, tokenHash)
}
func (p pgSessions) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	return p.db.RevokeAccessToken(ctx, jti, exp)
}
func (p pgSessions) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return p.db.IsAccessTokenRevoked(ctx, jti)
}

type Service struct {
	cfg       config.Config
	store     dataStore
	sessions  sessionStore
	passwords *authpw.Service
	mail      *email.Service
	searcher  *search.Service
	exporter  *export.Service
	photos    *photos.Service
}

// Options carries the optional backends. Sessions falls back to the
// Postgres tables when Redis is nil; the rest disable their endpoints
// when nil.
type Options struct {
	Redis  sessionStore
	Mail   *email.Service
	Search *search.Service
	Export *export.Service
	Photos *photos.Service
}

func New(cfg config.Config, db *store.PostgresStore, opts Options) *Service {
	sessions := sessionStore(pgSessions{db: db})
	if opts.Redis != nil {
		sessions = opts.Redis
	}
	return &Service{
		cfg:       cfg,
		store:     db,
		sessions:  sessions,
		passwords: authpw.NewService(db),
		mail:      opts.Mail,
		searcher:  opts.Search,
		exporter:  opts.Export,
		photos:    opts.Photos,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// PingSessions reports session-backend health. The Postgres fallback
// shares the database connection, so only Redis adds a real check.
func (s *Service) PingSessions(ctx context.Context) error {
	if pinger, ok := s.sessions.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (s *Service) Passwords() *authpw.Service {
	return s.passwords
}

func (s *Service) SMTPConfigured() bool {
	return s.mail != nil && s.mail.IsConfigured()
}

// Bootstrap seeds an empty database with a starter district, its stores,
// and one account per role, then warms the search index.
func (s *Service) Bootstrap(ctx context.Context) error {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		if s.searcher != nil {
			s.searcher.ReindexAllFromPG(ctx)
		}
		return nil
	}

	storeSeeds := []store.Store{
		{StoreNumber: "1042", Name: "Downtown Flagship", Location: "Portland, OR", IsActive: true},
		{StoreNumber: "2318", Name: "Riverside Plaza", Location: "Eugene, OR", IsActive: true},
	}
	created := make([]store.Store, 0, len(storeSeeds))
	for _, seed := range storeSeeds {
		item, err := s.store.CreateStore(ctx, seed)
		if err != nil {
			return fmt.Errorf("seed store %s: %w", seed.StoreNumber, err)
		}
		created = append(created, item)
	}
	homeStore := created[0].ID

	if _, err := s.passwords.SeedUser(ctx, authpw.ProvisionRequest{
		Username:  "admin",
		Email:     "admin@planner.local",
		FirstName: "Avery",
		LastName:  "Quinn",
		Role:      string(rbac.RoleSuperAdmin),
	}, "admin-changeme"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	manager, err := s.passwords.SeedUser(ctx, authpw.ProvisionRequest{
		Username:  "dmorgan",
		Email:     "dmorgan@planner.local",
		FirstName: "Dana",
		LastName:  "Morgan",
		Role:      string(rbac.RoleDistrictManager),
	}, "manager-changeme")
	if err != nil {
		return fmt.Errorf("seed manager: %w", err)
	}
	for _, item := range created {
		if err := s.store.AddStoreAssignment(ctx, manager.ID, item.ID); err != nil {
			return fmt.Errorf("seed assignment: %w", err)
		}
	}

	if _, err := s.passwords.SeedUser(ctx, authpw.ProvisionRequest{
		Username:    "jrivera",
		Email:       "jrivera@planner.local",
		FirstName:   "Jo",
		LastName:    "Rivera",
		Role:        string(rbac.RoleStoreAssociate),
		HomeStoreID: &homeStore,
	}, "associate-changeme"); err != nil {
		return fmt.Errorf("seed associate: %w", err)
	}

	if _, err := s.passwords.SeedUser(ctx, authpw.ProvisionRequest{
		Username:  "pellis",
		Email:     "pellis@planner.local",
		FirstName: "Parker",
		LastName:  "Ellis",
		Role:      string(rbac.RoleBusinessExecutive),
	}, "executive-changeme"); err != nil {
		return fmt.Errorf("seed executive: %w", err)
	}

	months := []string{"2026-06", "2026-07", "2026-08"}
	for i, item := range created {
		for j, month := range months {
			if _, err := s.store.InsertAnalytics(ctx, store.StoreAnalytics{
				StoreID:          item.ID,
				Month:            month,
				SalesTrend:       3.5 + float64(i) + float64(j)*0.8,
				StaffPerformance: 78 + float64(i*4+j*2),
				GoalProgress:     0.62 + float64(j)*0.1,
			}); err != nil {
				return fmt.Errorf("seed analytics: %w", err)
			}
		}
	}

	if s.searcher != nil {
		for _, item := range created {
			s.searcher.IndexStore(storeSearchRecord(item))
		}
	}
	return nil
}

// --- Sessions ---

func (s *Service) SignIn(ctx context.Context, login, password string) (Session, error) {
	user, err := s.passwords.SignIn(ctx, authpw.SignInRequest{Login: login, Password: password})
	if err != nil {
		if errors.Is(err, authpw.ErrInvalidCredentials) {
			return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		}
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:  user.ID,
		Name: user.Username,
		Role: user.Role,
		JTI:  jti,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		HomeStoreID:  user.HomeStoreID,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.sessions.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	// Role and home store come from the database, not the token, so a
	// role change takes effect on the next request.
	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:       token,
		UserID:      user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		HomeStoreID: user.HomeStoreID,
		JTI:         claims.JTI,
		ExpiresAt:   time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.sessions.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, session Session, current, next string) error {
	if err := s.passwords.ChangePassword(ctx, session.UserID, current, next); err != nil {
		switch err.Error() {
		case "current password is incorrect":
			return domainError(http.StatusUnprocessableEntity, "INVALID_PASSWORD", "Current password is incorrect", nil)
		case "password must be at least 8 characters":
			return validationError("Password must be at least 8 characters")
		}
		return err
	}
	return nil
}

// RequestPasswordReset issues a reset token and mails it when SMTP is
// configured. The returned token is only surfaced to the caller in dev
// setups without SMTP.
func (s *Service) RequestPasswordReset(ctx context.Context, login string) (string, error) {
	token, user, err := s.passwords.RequestPasswordReset(ctx, login)
	if err != nil {
		return "", err
	}
	if token == "" {
		// Unknown account; respond as if the mail was sent.
		return "", nil
	}
	if s.SMTPConfigured() {
		resetURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/reset-password?token=" + token
		name := strings.TrimSpace(user.FirstName + " " + user.LastName)
		if name == "" {
			name = user.Username
		}
		if err := s.mail.SendPasswordResetEmail(user.Email, name, resetURL); err != nil {
			return "", fmt.Errorf("send reset email: %w", err)
		}
		return "", nil
	}
	return token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.passwords.ResetPassword(ctx, authpw.ResetPasswordRequest{Token: token, NewPassword: newPassword}); err != nil {
		switch err.Error() {
		case "invalid or expired reset token":
			return domainError(http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired reset token", nil)
		case "password must be at least 8 characters", "token and new password are required":
			return validationError("%s", err)
		}
		return err
	}
	return nil
}

// --- Policy plumbing ---

// principal resolves the session into the policy identity. District
// manager assignments are loaded fresh on every request.
func (s *Service) principal(ctx context.Context, session Session) (rbac.Principal, error) {
	role, err := rbac.ParseRole(session.Role)
	if err != nil {
		return rbac.Principal{}, err
	}
	p := rbac.Principal{
		UserID:      session.UserID,
		Role:        role,
		HomeStoreID: session.HomeStoreID,
	}
	if role == rbac.RoleDistrictManager {
		ids, err := s.store.ListAssignedStoreIDs(ctx, session.UserID)
		if err != nil {
			return rbac.Principal{}, err
		}
		p.AssignedStores = ids
	}
	return p, nil
}

func forbidden(reason string) *DomainError {
	var details any
	if reason != "" {
		details = map[string]any{"reason": reason}
	}
	return domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", details)
}

func (s *Service) authorize(ctx context.Context, session Session, action rbac.Action, storeID int64) (rbac.Principal, error) {
	p, err := s.principal(ctx, session)
	if err != nil {
		return rbac.Principal{}, err
	}
	if d := rbac.Can(p, action, storeID); !d.Allowed {
		return rbac.Principal{}, forbidden(d.Reason)
	}
	return p, nil
}

// roleWritesEntries reports whether the role can ever touch day sheets.
// Used to reject management roles on entry-id routes before the entry is
// loaded, so the denial never depends on whether the entry exists.
func roleWritesEntries(role string) bool {
	return role == string(rbac.RoleStoreAssociate) || role == string(rbac.RoleSuperAdmin)
}

// --- Stores ---

func (s *Service) ListStores(ctx context.Context, session Session) ([]map[string]any, error) {
	p, err := s.authorize(ctx, session, rbac.ActionListStores, rbac.NoStore)
	if err != nil {
		return nil, err
	}
	scope := rbac.VisibleStores(p)
	if scope.Empty() {
		return []map[string]any{}, nil
	}
	stores, err := s.store.ListStores(ctx, scope)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(stores))
	for _, item := range stores {
		items = append(items, storePayload(item))
	}
	return items, nil
}

func (s *Service) GetStore(ctx context.Context, session Session, storeID int64) (map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionReadStore, storeID); err != nil {
		return nil, err
	}
	item, err := s.store.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return storePayload(item), nil
}

type CreateStoreInput struct {
	StoreNumber string `json:"storeNumber"`
	Name        string `json:"name"`
	Location    string `json:"location"`
}

func (s *Service) CreateStore(ctx context.Context, session Session, input CreateStoreInput) (map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionCreateStore, rbac.NoStore); err != nil {
		return nil, err
	}
	input.StoreNumber = strings.TrimSpace(input.StoreNumber)
	input.Name = strings.TrimSpace(input.Name)
	if input.StoreNumber == "" || input.Name == "" {
		return nil, validationError("storeNumber and name are required")
	}

	item, err := s.store.CreateStore(ctx, store.Store{
		StoreNumber: input.StoreNumber,
		Name:        input.Name,
		Location:    strings.TrimSpace(input.Location),
		IsActive:    true,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainError(http.StatusConflict, "STORE_EXISTS", "Store number already in use", nil)
		}
		return nil, err
	}
	if s.searcher != nil {
		s.searcher.IndexStore(storeSearchRecord(item))
	}
	return storePayload(item), nil
}

func (s *Service) AssignStore(ctx context.Context, session Session, storeID, managerID int64) (map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionAssignStoreToManager, rbac.NoStore); err != nil {
		return nil, err
	}
	manager, err := s.store.GetUserByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager.Role != string(rbac.RoleDistrictManager) {
		return nil, validationError("Assignee must be a district manager")
	}
	item, err := s.store.AssignDistrictManager(ctx, storeID, managerID)
	if err != nil {
		return nil, err
	}
	return storePayload(item), nil
}

// --- Planner entries ---

// Checklist and todo defaults stamped onto a freshly created day sheet.
func defaultDailyOperations() map[string]bool {
	return map[string]bool{
		"reviewHuddleCalendar":     false,
		"reviewLaborDashboards":    false,
		"pullProcessOmniOrders":    false,
		"setupEventEducationDemo":  false,
		"reconcileDailyPaperwork":  false,
		"checkEndOfDayNotes":       false,
		"checkEducationDashboard":  false,
		"strategizePrintCallLists": false,
	}
}

func defaultInventoryManagement() map[string]bool {
	return map[string]bool{
		"reviewStoreReceivingReport":  false,
		"reviewCycleCountsReport":     false,
		"reviewNegativeOnHandsReport": false,
		"reviewDamageLog":             false,
	}
}

func defaultStoreStandards() map[string]bool {
	return map[string]bool{
		"maintainVisualMerchandising": false,
		"replenishFrontFace":          false,
		"cleanCountersDemo":           false,
		"cleanWindowsDoors":           false,
		"cleanFloors":                 false,
		"cleanReplenishBathrooms":     false,
		"emptyTrashBins":              false,
	}
}

func defaultTodos() []store.TodoItem {
	return []store.TodoItem{
		{Task: "Schedule Team Meeting"},
		{Task: "Update Product Displays"},
		{Task: "Review Sales Reports"},
		{Task: "Customer Follow-ups"},
		{Task: "Social Media Posts"},
	}
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// GetOrCreateEntry returns the day sheet for (store, date), creating it
// with default checklists on first access. Creation shares the write
// permission; there is no separate create action.
func (s *Service) GetOrCreateEntry(ctx context.Context, session Session, storeID int64, date string) (map[string]any, error) {
	if !validDate(date) {
		return nil, domainError(http.StatusUnprocessableEntity, "INVALID_DATE", "Date must be YYYY-MM-DD", nil)
	}
	if _, err := s.authorize(ctx, session, rbac.ActionWritePlannerEntry, storeID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	entry, err := s.store.GetPlannerEntry(ctx, storeID, date)
	if errors.Is(err, sql.ErrNoRows) {
		entry, err = s.store.CreatePlannerEntry(ctx, store.PlannerEntry{
			StoreID:             storeID,
			Date:                date,
			Priorities:          []string{"", "", ""},
			Todos:               defaultTodos(),
			DailyOperations:     defaultDailyOperations(),
			InventoryManagement: defaultInventoryManagement(),
			StoreStandards:      defaultStoreStandards(),
			Photos:              []store.Photo{},
		})
	}
	if err != nil {
		return nil, err
	}
	return entryPayload(entry), nil
}

func (s *Service) GetEntry(ctx context.Context, session Session, storeID int64, date string) (map[string]any, error) {
	if !validDate(date) {
		return nil, domainError(http.StatusUnprocessableEntity, "INVALID_DATE", "Date must be YYYY-MM-DD", nil)
	}
	if _, err := s.authorize(ctx, session, rbac.ActionReadPlannerEntry, storeID); err != nil {
		return nil, err
	}
	entry, err := s.store.GetPlannerEntry(ctx, storeID, date)
	if err != nil {
		return nil, err
	}
	return entryPayload(entry), nil
}

func (s *Service) EntryHistory(ctx context.Context, session Session, storeID int64, limit int) ([]map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionReadPlannerEntry, storeID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 7
	}
	if limit > 90 {
		limit = 90
	}
	entries, err := s.store.ListPlannerEntriesForStore(ctx, storeID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryPayload(entry))
	}
	return items, nil
}

type UpdateEntryInput struct {
	DailySales        *float64 `json:"dailySales"`
	WTDActual         *float64 `json:"wtdActual"`
	MTDActual         *float64 `json:"mtdActual"`
	YTDActual         *float64 `json:"ytdActual"`
	AIFServiceGoal    *int     `json:"aifServiceGoal"`
	ADTAvgTransaction *float64 `json:"adtAvgTransaction"`
	NPSScore          *int     `json:"npsScore"`

	Contests          *string `json:"contests"`
	UpcomingSales     *string `json:"upcomingSales"`
	EndOfDayNotes     *string `json:"endOfDayNotes"`
	InventoryBenches  *string `json:"inventoryBenches"`
	UpcomingEducation *string `json:"upcomingEducation"`
	EducationToSold   *string `json:"educationToSold"`
	SocialPosts       *string `json:"socialPosts"`

	Priorities          []string         `json:"priorities"`
	Todos               []store.TodoItem `json:"todos"`
	DailyOperations     map[string]bool  `json:"dailyOperations"`
	InventoryManagement map[string]bool  `json:"inventoryManagement"`
	StoreStandards      map[string]bool  `json:"storeStandards"`
}

func (s *Service) UpdateEntry(ctx context.Context, session Session, entryID int64, input UpdateEntryInput) (map[string]any, error) {
	p, err := s.principal(ctx, session)
	if err != nil {
		return nil, err
	}
	if !roleWritesEntries(session.Role) {
		return nil, forbidden("management roles do not edit planner entries")
	}
	existing, err := s.store.GetPlannerEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if d := rbac.Can(p, rbac.ActionWritePlannerEntry, existing.StoreID); !d.Allowed {
		return nil, forbidden(d.Reason)
	}
	if input.NPSScore != nil && (*input.NPSScore < -100 || *input.NPSScore > 100) {
		return nil, validationError("npsScore must be between -100 and 100")
	}

	entry, err := s.store.UpdatePlannerEntry(ctx, entryID, store.PlannerEntryPatch{
		DailySales:          input.DailySales,
		WTDActual:           input.WTDActual,
		MTDActual:           input.MTDActual,
		YTDActual:           input.YTDActual,
		AIFServiceGoal:      input.AIFServiceGoal,
		ADTAvgTransaction:   input.ADTAvgTransaction,
		NPSScore:            input.NPSScore,
		Contests:            input.Contests,
		UpcomingSales:       input.UpcomingSales,
		EndOfDayNotes:       input.EndOfDayNotes,
		InventoryBenches:    input.InventoryBenches,
		UpcomingEducation:   input.UpcomingEducation,
		EducationToSold:     input.EducationToSold,
		SocialPosts:         input.SocialPosts,
		Priorities:          input.Priorities,
		Todos:               input.Todos,
		DailyOperations:     input.DailyOperations,
		InventoryManagement: input.InventoryManagement,
		StoreStandards:      input.StoreStandards,
	})
	if err != nil {
		return nil, err
	}
	if s.searcher != nil {
		s.searcher.IndexEntry(entrySearchRecord(entry))
	}
	return entryPayload(entry), nil
}

func (s *Service) ExportDaySheet(ctx context.Context, session Session, storeID int64, date string) (*export.Result, error) {
	if s.exporter == nil {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export is not configured", nil)
	}
	if !validDate(date) {
		return nil, domainError(http.StatusUnprocessableEntity, "INVALID_DATE", "Date must be YYYY-MM-DD", nil)
	}
	if _, err := s.authorize(ctx, session, rbac.ActionReadPlannerEntry, storeID); err != nil {
		return nil, err
	}
	entry, err := s.store.GetPlannerEntry(ctx, storeID, date)
	if err != nil {
		return nil, err
	}

	result, err := s.exporter.ExportDaySheet(ctx, entry.ID)
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF rendering is unavailable on this host", nil)
		}
		return nil, err
	}
	return result, nil
}

// entryForWrite loads the entry and checks day-sheet write access
// against its owning store.
func (s *Service) entryForWrite(ctx context.Context, session Session, entryID int64) (store.PlannerEntry, error) {
	p, err := s.principal(ctx, session)
	if err != nil {
		return store.PlannerEntry{}, err
	}
	if !roleWritesEntries(session.Role) {
		return store.PlannerEntry{}, forbidden("management roles do not edit planner entries")
	}
	entry, err := s.store.GetPlannerEntryByID(ctx, entryID)
	if err != nil {
		return store.PlannerEntry{}, err
	}
	if d := rbac.Can(p, rbac.ActionWritePlannerEntry, entry.StoreID); !d.Allowed {
		return store.PlannerEntry{}, forbidden(d.Reason)
	}
	return entry, nil
}

// --- Staff schedules ---

type ScheduleInput struct {
	StaffName string `json:"staffName"`
	Slot8To9  string `json:"slot8to9"`
	Slot9To12 string `json:"slot9to12"`
	Slot12To4 string `json:"slot12to4"`
	Slot4To8  string `json:"slot4to8"`
}

func normalizeSlot(value string) (string, bool) {
	switch value {
	case "":
		return store.SlotOpen, true
	case store.SlotOpen, store.SlotScheduled, store.SlotBreak:
		return value, true
	}
	return "", false
}

func (input ScheduleInput) toModel(entryID int64) (store.StaffSchedule, error) {
	name := strings.TrimSpace(input.StaffName)
	if name == "" {
		return store.StaffSchedule{}, validationError("staffName is required")
	}
	item := store.StaffSchedule{PlannerEntryID: entryID, StaffName: name}
	slots := []struct {
		value string
		dest  *string
	}{
		{input.Slot8To9, &item.Slot8To9},
		{input.Slot9To12, &item.Slot9To12},
		{input.Slot12To4, &item.Slot12To4},
		{input.Slot4To8, &item.Slot4To8},
	}
	for _, slot := range slots {
		normalized, ok := normalizeSlot(slot.value)
		if !ok {
			return store.StaffSchedule{}, validationError("invalid slot value %q", slot.value)
		}
		*slot.dest = normalized
	}
	return item, nil
}

func (s *Service) ListSchedules(ctx context.Context, session Session, entryID int64) ([]map[string]any, error) {
	p, err := s.principal(ctx, session)
	if err != nil {
		return nil, err
	}
	if !roleWritesEntries(session.Role) {
		return nil, forbidden("management roles do not read planner entries")
	}
	entry, err := s.store.GetPlannerEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if d := rbac.Can(p, rbac.ActionReadPlannerEntry, entry.StoreID); !d.Allowed {
		return nil, forbidden(d.Reason)
	}
	schedules, err := s.store.ListStaffSchedules(ctx, entryID)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(schedules))
	for _, item := range schedules {
		items = append(items, schedulePayload(item))
	}
	return items, nil
}

func (s *Service) CreateSchedule(ctx context.Context, session Session, entryID int64, input ScheduleInput) (map[string]any, error) {
	entry, err := s.entryForWrite(ctx, session, entryID)
	if err != nil {
		return nil, err
	}
	item, err := input.toModel(entry.ID)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateStaffSchedule(ctx, item)
	if err != nil {
		return nil, err
	}
	return schedulePayload(created), nil
}

func (s *Service) UpdateSchedule(ctx context.Context, session Session, scheduleID int64, input ScheduleInput) (map[string]any, error) {
	if !roleWritesEntries(session.Role) {
		return nil, forbidden("management roles do not edit planner entries")
	}
	existing, err := s.store.GetStaffSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.entryForWrite(ctx, session, existing.PlannerEntryID); err != nil {
		return nil, err
	}
	item, err := input.toModel(existing.PlannerEntryID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateStaffSchedule(ctx, scheduleID, item)
	if err != nil {
		return nil, err
	}
	return schedulePayload(updated), nil
}

func (s *Service) DeleteSchedule(ctx context.Context, session Session, scheduleID int64) error {
	if !roleWritesEntries(session.Role) {
		return forbidden("management roles do not edit planner entries")
	}
	existing, err := s.store.GetStaffSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if _, err := s.entryForWrite(ctx, session, existing.PlannerEntryID); err != nil {
		return err
	}
	return s.store.DeleteStaffSchedule(ctx, scheduleID)
}

// --- Photos ---

type UploadPhotoInput struct {
	Filename    string
	ContentType string
	Category    string
	Size        int64
	Body        io.Reader
}

func (s *Service) UploadPhoto(ctx context.Context, session Session, entryID int64, input UploadPhotoInput) (map[string]any, error) {
	if s.photos == nil {
		return nil, domainError(http.StatusServiceUnavailable, "PHOTOS_UNAVAILABLE", "Photo storage is not configured", nil)
	}
	entry, err := s.entryForWrite(ctx, session, entryID)
	if err != nil {
		return nil, err
	}

	key, err := s.photos.Upload(ctx, photos.UploadRequest{
		StoreID:     entry.StoreID,
		Date:        entry.Date,
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Size:        input.Size,
		Body:        input.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, photos.ErrTooLarge):
			return nil, domainError(http.StatusRequestEntityTooLarge, "PHOTO_TOO_LARGE", "Photo exceeds the upload limit", nil)
		case errors.Is(err, photos.ErrNotImage):
			return nil, domainError(http.StatusUnprocessableEntity, "UNSUPPORTED_TYPE", "Only image uploads are accepted", nil)
		}
		return nil, err
	}

	url, err := s.photos.PresignedURL(ctx, key, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	// The object key doubles as the photo id so deletes can find the
	// stored object without a second lookup table.
	photo := store.Photo{
		ID:         key,
		Filename:   input.Filename,
		Category:   input.Category,
		URL:        url,
		UploadedAt: time.Now().UTC(),
	}
	updated, err := s.store.UpdatePlannerEntryPhotos(ctx, entryID, append(entry.Photos, photo))
	if err != nil {
		return nil, err
	}
	return entryPayload(updated), nil
}

func (s *Service) DeletePhoto(ctx context.Context, session Session, entryID int64, photoID string) (map[string]any, error) {
	if s.photos == nil {
		return nil, domainError(http.StatusServiceUnavailable, "PHOTOS_UNAVAILABLE", "Photo storage is not configured", nil)
	}
	entry, err := s.entryForWrite(ctx, session, entryID)
	if err != nil {
		return nil, err
	}

	kept := make([]store.Photo, 0, len(entry.Photos))
	found := false
	for _, photo := range entry.Photos {
		if photo.ID == photoID {
			found = true
			continue
		}
		kept = append(kept, photo)
	}
	if !found {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Photo not found", nil)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdatePlannerEntryPhotos(ctx, entryID, kept)
	if err != nil {
		return nil, err
	}
	return entryPayload(updated), nil
}

// --- Analytics ---

func (s *Service) Analytics(ctx context.Context, session Session, requested []int64) ([]map[string]any, error) {
	p, err := s.authorize(ctx, session, rbac.ActionReadAnalytics, rbac.NoStore)
	if err != nil {
		return nil, err
	}
	scope := rbac.ScopeAnalytics(p, requested)
	if scope.Empty() {
		return []map[string]any{}, nil
	}
	rows, err := s.store.ListAnalytics(ctx, scope)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, analyticsPayload(row))
	}
	return items, nil
}

func (s *Service) ExportAnalytics(ctx context.Context, session Session, requested []int64) (*export.Result, error) {
	p, err := s.authorize(ctx, session, rbac.ActionReadAnalytics, rbac.NoStore)
	if err != nil {
		return nil, err
	}
	scope := rbac.ScopeAnalytics(p, requested)
	rows := []store.StoreAnalytics{}
	if !scope.Empty() {
		rows, err = s.store.ListAnalytics(ctx, scope)
		if err != nil {
			return nil, err
		}
	}

	storesByID, err := s.visibleStoresByID(ctx, p)
	if err != nil {
		return nil, err
	}
	exportRows := make([]export.AnalyticsRow, 0, len(rows))
	for _, row := range rows {
		item := storesByID[row.StoreID]
		exportRows = append(exportRows, export.AnalyticsRow{
			StoreNumber:      item.StoreNumber,
			StoreName:        item.Name,
			Month:            row.Month,
			SalesTrend:       row.SalesTrend,
			StaffPerformance: row.StaffPerformance,
			GoalProgress:     row.GoalProgress,
		})
	}
	return export.BuildAnalyticsWorkbook(exportRows)
}

type RecordAnalyticsInput struct {
	StoreID          int64   `json:"storeId"`
	Month            string  `json:"month"`
	SalesTrend       float64 `json:"salesTrend"`
	StaffPerformance float64 `json:"staffPerformance"`
	GoalProgress     float64 `json:"goalProgress"`
}

// RecordAnalytics loads one monthly aggregate. Aggregates are produced
// out of band, so only administrators may write them.
func (s *Service) RecordAnalytics(ctx context.Context, session Session, input RecordAnalyticsInput) (map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionManageUsers, rbac.NoStore); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01", input.Month); err != nil {
		return nil, validationError("month must be YYYY-MM")
	}
	if _, err := s.store.GetStore(ctx, input.StoreID); err != nil {
		return nil, err
	}
	row, err := s.store.InsertAnalytics(ctx, store.StoreAnalytics{
		StoreID:          input.StoreID,
		Month:            input.Month,
		SalesTrend:       input.SalesTrend,
		StaffPerformance: input.StaffPerformance,
		GoalProgress:     input.GoalProgress,
	})
	if err != nil {
		return nil, err
	}
	return analyticsPayload(row), nil
}

func (s *Service) visibleStoresByID(ctx context.Context, p rbac.Principal) (map[int64]store.Store, error) {
	scope := rbac.VisibleStores(p)
	byID := make(map[int64]store.Store)
	if scope.Empty() {
		return byID, nil
	}
	stores, err := s.store.ListStores(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, item := range stores {
		byID[item.ID] = item
	}
	return byID, nil
}

// --- Reports ---

func (s *Service) StoreActivity(ctx context.Context, session Session, since string) ([]map[string]any, error) {
	p, err := s.authorize(ctx, session, rbac.ActionReadAnalytics, rbac.NoStore)
	if err != nil {
		return nil, err
	}
	if since == "" {
		since = time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	}
	if !validDate(since) {
		return nil, domainError(http.StatusUnprocessableEntity, "INVALID_DATE", "since must be YYYY-MM-DD", nil)
	}
	scope := rbac.VisibleStores(p)
	if scope.Empty() {
		return []map[string]any{}, nil
	}
	rows, err := s.store.StoreActivitySince(ctx, scope, since)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, activityPayload(row))
	}
	return items, nil
}

// ReportSummary aggregates the visible stores into one management
// snapshot: network size, activity in the last week, and per-metric
// analytics averages.
func (s *Service) ReportSummary(ctx context.Context, session Session) (map[string]any, error) {
	p, err := s.authorize(ctx, session, rbac.ActionReadAnalytics, rbac.NoStore)
	if err != nil {
		return nil, err
	}
	scope := rbac.VisibleStores(p)
	if scope.Empty() {
		return map[string]any{
			"storeCount":          0,
			"activeStoreCount":    0,
			"storesWithActivity":  0,
			"entriesLast7Days":    0,
			"avgSalesTrend":       0.0,
			"avgStaffPerformance": 0.0,
			"avgGoalProgress":     0.0,
		}, nil
	}

	since := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	activity, err := s.store.StoreActivitySince(ctx, scope, since)
	if err != nil {
		return nil, err
	}
	entries := 0
	active := 0
	withActivity := 0
	for _, row := range activity {
		entries += row.EntriesCount
		if row.IsActive {
			active++
		}
		if row.EntriesCount > 0 {
			withActivity++
		}
	}

	rows, err := s.store.ListAnalytics(ctx, scope)
	if err != nil {
		return nil, err
	}
	var sales, staff, goal float64
	for _, row := range rows {
		sales += row.SalesTrend
		staff += row.StaffPerformance
		goal += row.GoalProgress
	}
	if n := float64(len(rows)); n > 0 {
		sales /= n
		staff /= n
		goal /= n
	}

	return map[string]any{
		"storeCount":          len(activity),
		"activeStoreCount":    active,
		"storesWithActivity":  withActivity,
		"entriesLast7Days":    entries,
		"avgSalesTrend":       sales,
		"avgStaffPerformance": staff,
		"avgGoalProgress":     goal,
	}, nil
}

// --- Search ---

type SearchInput struct {
	Text       string
	FilterType string
	Limit      int
	Offset     int
}

func (s *Service) Search(ctx context.Context, session Session, input SearchInput) (search.Response, error) {
	if s.searcher == nil {
		return search.Response{}, domainError(http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE", "Search is not configured", nil)
	}
	p, err := s.principal(ctx, session)
	if err != nil {
		return search.Response{}, err
	}

	filter := search.ResultType(input.FilterType)
	switch filter {
	case "", search.ResultEntry, search.ResultStore:
	default:
		return search.Response{}, validationError("type must be entry or store")
	}
	// Management roles cannot read day sheets, so their searches only
	// cover stores regardless of the requested filter.
	if !roleWritesEntries(session.Role) {
		filter = search.ResultStore
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return s.searcher.Search(search.Query{
		Text:       input.Text,
		FilterType: filter,
		Scope:      rbac.VisibleStores(p),
		Limit:      limit,
		Offset:     offset,
	}), nil
}

func entrySearchRecord(entry store.PlannerEntry) search.EntryRecord {
	body := strings.TrimSpace(strings.Join([]string{
		entry.Contests,
		entry.UpcomingSales,
		entry.EndOfDayNotes,
		entry.InventoryBenches,
		entry.UpcomingEducation,
		entry.EducationToSold,
		entry.SocialPosts,
	}, "\n"))
	return search.EntryRecord{
		ID:      fmt.Sprintf("%d", entry.ID),
		StoreID: entry.StoreID,
		Date:    entry.Date,
		Body:    body,
	}
}

func storeSearchRecord(item store.Store) search.StoreRecord {
	return search.StoreRecord{
		ID:          fmt.Sprintf("%d", item.ID),
		StoreID:     item.ID,
		StoreNumber: item.StoreNumber,
		Name:        item.Name,
		Location:    item.Location,
	}
}

// --- User administration ---

// ListUsers returns all accounts, or only one role's accounts when
// roleFilter is set (the admin UI uses this to pick a district manager
// for store assignment).
func (s *Service) ListUsers(ctx context.Context, session Session, roleFilter string) ([]map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionManageUsers, rbac.NoStore); err != nil {
		return nil, err
	}
	var users []store.User
	var err error
	if roleFilter != "" {
		role, parseErr := rbac.ParseRole(roleFilter)
		if parseErr != nil {
			return nil, domainError(http.StatusUnprocessableEntity, "INVALID_ROLE", "Unknown role", nil)
		}
		users, err = s.store.ListUsersByRole(ctx, string(role))
	} else {
		users, err = s.store.ListUsers(ctx)
	}
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(users))
	for _, user := range users {
		payload := userPayload(user)
		if user.Role == string(rbac.RoleDistrictManager) {
			ids, err := s.store.ListAssignedStoreIDs(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			payload["assignedStoreIds"] = ids
		}
		items = append(items, payload)
	}
	return items, nil
}

type InviteUserInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
	HomeStoreID *int64 `json:"homeStoreId"`
}

// InviteUser provisions an account with a temporary password and mails
// the invite. Without SMTP the temporary password is returned to the
// admin instead.
func (s *Service) InviteUser(ctx context.Context, session Session, input InviteUserInput) (map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionManageUsers, rbac.NoStore); err != nil {
		return nil, err
	}
	if input.Role != string(rbac.RoleStoreAssociate) {
		input.HomeStoreID = nil
	}
	if input.HomeStoreID != nil {
		if _, err := s.store.GetStore(ctx, *input.HomeStoreID); err != nil {
			return nil, err
		}
	}

	resp, err := s.passwords.ProvisionUser(ctx, authpw.ProvisionRequest{
		Username:    input.Username,
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        input.Role,
		HomeStoreID: input.HomeStoreID,
	})
	if err != nil {
		if errors.Is(err, rbac.ErrInvalidRole) {
			return nil, domainError(http.StatusUnprocessableEntity, "INVALID_ROLE", "Unknown role", nil)
		}
		switch err.Error() {
		case "username already registered":
			return nil, domainError(http.StatusConflict, "USERNAME_EXISTS", "Username already registered", nil)
		case "email already registered":
			return nil, domainError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
		case "username and email are required":
			return nil, validationError("%s", err)
		}
		return nil, err
	}

	payload := map[string]any{"user": userPayload(resp.User)}
	if s.SMTPConfigured() {
		name := strings.TrimSpace(resp.User.FirstName + " " + resp.User.LastName)
		if name == "" {
			name = resp.User.Username
		}
		signInURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/signin"
		if err := s.mail.SendInviteEmail(resp.User.Email, name, resp.User.Username, resp.TempPassword, signInURL); err != nil {
			return nil, fmt.Errorf("send invite email: %w", err)
		}
		payload["emailSent"] = true
	} else {
		payload["emailSent"] = false
		payload["tempPassword"] = resp.TempPassword
	}
	return payload, nil
}

type UpdateRoleInput struct {
	Role        string `json:"role"`
	HomeStoreID *int64 `json:"homeStoreId"`
}

func (s *Service) UpdateUserRole(ctx context.Context, session Session, userID int64, input UpdateRoleInput) (map[string]any, error) {
	if _, err := s.authorize(ctx, session, rbac.ActionManageUsers, rbac.NoStore); err != nil {
		return nil, err
	}
	role, err := rbac.ParseRole(input.Role)
	if err != nil {
		return nil, domainError(http.StatusUnprocessableEntity, "INVALID_ROLE", "Unknown role", nil)
	}
	homeStoreID := input.HomeStoreID
	if role != rbac.RoleStoreAssociate {
		homeStoreID = nil
	}
	if homeStoreID != nil {
		if _, err := s.store.GetStore(ctx, *homeStoreID); err != nil {
			return nil, err
		}
	}
	user, err := s.store.UpdateUserRole(ctx, userID, string(role), homeStoreID)
	if err != nil {
		return nil, err
	}
	return userPayload(user), nil
}

func (s *Service) AddAssignment(ctx context.Context, session Session, userID, storeID int64) error {
	if _, err := s.authorize(ctx, session, rbac.ActionManageUsers, rbac.NoStore); err != nil {
		return err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != string(rbac.RoleDistrictManager) {
		return validationError("Only district managers hold store assignments")
	}
	if _, err := s.store.GetStore(ctx, storeID); err != nil {
		return err
	}
	return s.store.AddStoreAssignment(ctx, userID, storeID)
}

func (s *Service) RemoveAssignment(ctx context.Context, session Session, userID, storeID int64) error {
	if _, err := s.authorize(ctx, session, rbac.ActionManageUsers, rbac.NoStore); err != nil {
		return err
	}
	return s.store.RemoveStoreAssignment(ctx, userID, storeID)
}

// --- Payloads ---

func storePayload(item store.Store) map[string]any {
	return map[string]any{
		"id":                item.ID,
		"storeNumber":       item.StoreNumber,
		"name":              item.Name,
		"location":          item.Location,
		"isActive":          item.IsActive,
		"districtManagerId": item.DistrictManagerID,
		"createdAt":         item.CreatedAt,
	}
}

func userPayload(user store.User) map[string]any {
	return map[string]any{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"firstName":   user.FirstName,
		"lastName":    user.LastName,
		"role":        user.Role,
		"homeStoreId": user.HomeStoreID,
		"createdAt":   user.CreatedAt,
	}
}

func entryPayload(entry store.PlannerEntry) map[string]any {
	return map[string]any{
		"id":                  entry.ID,
		"storeId":             entry.StoreID,
		"date":                entry.Date,
		"dailySales":          entry.DailySales,
		"wtdActual":           entry.WTDActual,
		"mtdActual":           entry.MTDActual,
		"ytdActual":           entry.YTDActual,
		"aifServiceGoal":      entry.AIFServiceGoal,
		"adtAvgTransaction":   entry.ADTAvgTransaction,
		"npsScore":            entry.NPSScore,
		"contests":            entry.Contests,
		"upcomingSales":       entry.UpcomingSales,
		"endOfDayNotes":       entry.EndOfDayNotes,
		"inventoryBenches":    entry.InventoryBenches,
		"upcomingEducation":   entry.UpcomingEducation,
		"educationToSold":     entry.EducationToSold,
		"socialPosts":         entry.SocialPosts,
		"priorities":          entry.Priorities,
		"todos":               entry.Todos,
		"dailyOperations":     entry.DailyOperations,
		"inventoryManagement": entry.InventoryManagement,
		"storeStandards":      entry.StoreStandards,
		"photos":              entry.Photos,
		"createdAt":           entry.CreatedAt,
		"updatedAt":           entry.UpdatedAt,
	}
}

func schedulePayload(item store.StaffSchedule) map[string]any {
	return map[string]any{
		"id":             item.ID,
		"plannerEntryId": item.PlannerEntryID,
		"staffName":      item.StaffName,
		"slot8to9":       item.Slot8To9,
		"slot9to12":      item.Slot9To12,
		"slot12to4":      item.Slot12To4,
		"slot4to8":       item.Slot4To8,
	}
}

func analyticsPayload(row store.StoreAnalytics) map[string]any {
	return map[string]any{
		"id":               row.ID,
		"storeId":          row.StoreID,
		"month":            row.Month,
		"salesTrend":       row.SalesTrend,
		"staffPerformance": row.StaffPerformance,
		"goalProgress":     row.GoalProgress,
	}
}

func activityPayload(row store.StoreActivity) map[string]any {
	return map[string]any{
		"storeId":       row.StoreID,
		"storeNumber":   row.StoreNumber,
		"name":          row.Name,
		"location":      row.Location,
		"isActive":      row.IsActive,
		"entriesCount":  row.EntriesCount,
		"lastEntryDate": row.LastEntryDate,
	}
}
