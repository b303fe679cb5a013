package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"planner/api/internal/rbac"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---------------------------------------------------------------------------
// Users

const userColumns = `id, username, email, password_hash, first_name, last_name, role, store_id, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.HomeStoreID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID int64) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID))
}

// GetUserByLogin resolves a sign-in identifier against username or email.
func (s *PostgresStore) GetUserByLogin(ctx context.Context, login string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username=$1 OR LOWER(email)=LOWER($1)
	`, login))
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, role, store_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns+`
	`, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role, user.HomeStoreID)
	created, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
}

func (s *PostgresStore) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY username`, role)
}

func (s *PostgresStore) listUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.HomeStoreID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) UpdateUserRole(ctx context.Context, userID int64, role string, homeStoreID *int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET role=$2, store_id=$3, updated_at=NOW()
		WHERE id=$1
		RETURNING `+userColumns+`
	`, userID, role, homeStoreID)
	user, err := scanUser(row)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// District manager store assignments

func (s *PostgresStore) ListAssignedStoreIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT store_id FROM user_store_assignments WHERE user_id=$1 ORDER BY store_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) AddStoreAssignment(ctx context.Context, userID, storeID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_store_assignments (user_id, store_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, store_id) DO NOTHING
	`, userID, storeID)
	if err != nil {
		return fmt.Errorf("add assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveStoreAssignment(ctx context.Context, userID, storeID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_store_assignments WHERE user_id=$1 AND store_id=$2
	`, userID, storeID)
	if err != nil {
		return fmt.Errorf("remove assignment: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Refresh sessions and token revocation (Postgres fallback when Redis is off)

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.store_id, u.created_at, u.updated_at
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`, tokenHash)
	return scanUser(row)
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, exp)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

func (s *PostgresStore) CreatePasswordReset(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO NOTHING
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPasswordReset(ctx context.Context, tokenHash string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM password_resets
		WHERE token_hash=$1 AND used_at IS NULL AND expires_at > NOW()
	`, tokenHash).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *PostgresStore) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE password_resets SET used_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Stores

const storeColumns = `id, store_number, name, location, is_active, district_manager_id, created_at`

// ListStores returns active stores limited to the caller's scope. The
// filter is part of the query: callers never see rows outside the scope,
// even transiently.
func (s *PostgresStore) ListStores(ctx context.Context, scope rbac.Scope) ([]Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE is_active = TRUE`
	args := []any{}
	if !scope.All {
		query += ` AND id = ANY($1)`
		args = append(args, scope.IDs)
	}
	query += ` ORDER BY store_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	items := make([]Store, 0)
	for rows.Next() {
		var item Store
		if err := rows.Scan(&item.ID, &item.StoreNumber, &item.Name, &item.Location, &item.IsActive, &item.DistrictManagerID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetStore(ctx context.Context, storeID int64) (Store, error) {
	var item Store
	err := s.db.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE id=$1`, storeID).
		Scan(&item.ID, &item.StoreNumber, &item.Name, &item.Location, &item.IsActive, &item.DistrictManagerID, &item.CreatedAt)
	if err != nil {
		return Store{}, err
	}
	return item, nil
}

func (s *PostgresStore) CreateStore(ctx context.Context, item Store) (Store, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO stores (store_number, name, location, is_active)
		VALUES ($1, $2, $3, COALESCE($4, TRUE))
		RETURNING `+storeColumns+`
	`, item.StoreNumber, item.Name, item.Location, item.IsActive)
	var created Store
	if err := row.Scan(&created.ID, &created.StoreNumber, &created.Name, &created.Location, &created.IsActive, &created.DistrictManagerID, &created.CreatedAt); err != nil {
		return Store{}, fmt.Errorf("insert store: %w", err)
	}
	return created, nil
}

// AssignDistrictManager records the manager on the store row and in the
// assignment join, so both the display field and the visibility set stay
// in step.
func (s *PostgresStore) AssignDistrictManager(ctx context.Context, storeID, managerID int64) (Store, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Store{}, fmt.Errorf("begin assign tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var item Store
	err = tx.QueryRowContext(ctx, `
		UPDATE stores SET district_manager_id=$2 WHERE id=$1
		RETURNING `+storeColumns+`
	`, storeID, managerID).
		Scan(&item.ID, &item.StoreNumber, &item.Name, &item.Location, &item.IsActive, &item.DistrictManagerID, &item.CreatedAt)
	if err != nil {
		return Store{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_store_assignments (user_id, store_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, store_id) DO NOTHING
	`, managerID, storeID); err != nil {
		return Store{}, fmt.Errorf("insert assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Store{}, fmt.Errorf("commit assign tx: %w", err)
	}
	return item, nil
}

// ---------------------------------------------------------------------------
// Planner entries

const entryColumns = `id, store_id, date, daily_sales, wtd_actual, mtd_actual, ytd_actual,
	aif_service_goal, adt_avg_transaction, nps_score,
	contests, upcoming_sales, end_of_day_notes, inventory_benches,
	upcoming_education, education_to_sold, social_posts,
	priorities, todos, daily_operations, inventory_management, store_standards, photos,
	created_at, updated_at`

func scanEntry(scanner interface{ Scan(...any) error }) (PlannerEntry, error) {
	var e PlannerEntry
	var priorities, todos, dailyOps, invMgmt, standards, photos []byte
	err := scanner.Scan(
		&e.ID, &e.StoreID, &e.Date,
		&e.DailySales, &e.WTDActual, &e.MTDActual, &e.YTDActual,
		&e.AIFServiceGoal, &e.ADTAvgTransaction, &e.NPSScore,
		&e.Contests, &e.UpcomingSales, &e.EndOfDayNotes, &e.InventoryBenches,
		&e.UpcomingEducation, &e.EducationToSold, &e.SocialPosts,
		&priorities, &todos, &dailyOps, &invMgmt, &standards, &photos,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return PlannerEntry{}, err
	}
	if err := unmarshalJSONB(priorities, &e.Priorities); err != nil {
		return PlannerEntry{}, fmt.Errorf("decode priorities: %w", err)
	}
	if err := unmarshalJSONB(todos, &e.Todos); err != nil {
		return PlannerEntry{}, fmt.Errorf("decode todos: %w", err)
	}
	if err := unmarshalJSONB(dailyOps, &e.DailyOperations); err != nil {
		return PlannerEntry{}, fmt.Errorf("decode daily operations: %w", err)
	}
	if err := unmarshalJSONB(invMgmt, &e.InventoryManagement); err != nil {
		return PlannerEntry{}, fmt.Errorf("decode inventory management: %w", err)
	}
	if err := unmarshalJSONB(standards, &e.StoreStandards); err != nil {
		return PlannerEntry{}, fmt.Errorf("decode store standards: %w", err)
	}
	if err := unmarshalJSONB(photos, &e.Photos); err != nil {
		return PlannerEntry{}, fmt.Errorf("decode photos: %w", err)
	}
	return e, nil
}

func unmarshalJSONB(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(value)
}

func (s *PostgresStore) GetPlannerEntry(ctx context.Context, storeID int64, date string) (PlannerEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM planner_entries WHERE store_id=$1 AND date=$2
	`, storeID, date)
	return scanEntry(row)
}

func (s *PostgresStore) GetPlannerEntryByID(ctx context.Context, entryID int64) (PlannerEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM planner_entries WHERE id=$1
	`, entryID)
	return scanEntry(row)
}

// CreatePlannerEntry inserts the default day sheet for (store, date). The
// unique constraint makes lazy creation idempotent: on conflict the
// existing row is returned unchanged.
func (s *PostgresStore) CreatePlannerEntry(ctx context.Context, entry PlannerEntry) (PlannerEntry, error) {
	priorities, err := marshalJSONB(entry.Priorities)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode priorities: %w", err)
	}
	todos, err := marshalJSONB(entry.Todos)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode todos: %w", err)
	}
	dailyOps, err := marshalJSONB(entry.DailyOperations)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode daily operations: %w", err)
	}
	invMgmt, err := marshalJSONB(entry.InventoryManagement)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode inventory management: %w", err)
	}
	standards, err := marshalJSONB(entry.StoreStandards)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode store standards: %w", err)
	}
	photos, err := marshalJSONB(entry.Photos)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode photos: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO planner_entries (
			store_id, date, contests, upcoming_sales, end_of_day_notes,
			inventory_benches, upcoming_education, education_to_sold, social_posts,
			priorities, todos, daily_operations, inventory_management, store_standards, photos
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (store_id, date) DO NOTHING
		RETURNING `+entryColumns+`
	`, entry.StoreID, entry.Date, entry.Contests, entry.UpcomingSales, entry.EndOfDayNotes,
		entry.InventoryBenches, entry.UpcomingEducation, entry.EducationToSold, entry.SocialPosts,
		priorities, todos, dailyOps, invMgmt, standards, photos)

	created, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race or the row already existed; hand back the winner.
		return s.GetPlannerEntry(ctx, entry.StoreID, entry.Date)
	}
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("insert planner entry: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdatePlannerEntry(ctx context.Context, entryID int64, patch PlannerEntryPatch) (PlannerEntry, error) {
	priorities, err := marshalOptionalJSONB(patch.Priorities != nil, patch.Priorities)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode priorities: %w", err)
	}
	todos, err := marshalOptionalJSONB(patch.Todos != nil, patch.Todos)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode todos: %w", err)
	}
	dailyOps, err := marshalOptionalJSONB(patch.DailyOperations != nil, patch.DailyOperations)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode daily operations: %w", err)
	}
	invMgmt, err := marshalOptionalJSONB(patch.InventoryManagement != nil, patch.InventoryManagement)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode inventory management: %w", err)
	}
	standards, err := marshalOptionalJSONB(patch.StoreStandards != nil, patch.StoreStandards)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode store standards: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE planner_entries SET
			daily_sales = COALESCE($2, daily_sales),
			wtd_actual = COALESCE($3, wtd_actual),
			mtd_actual = COALESCE($4, mtd_actual),
			ytd_actual = COALESCE($5, ytd_actual),
			aif_service_goal = COALESCE($6, aif_service_goal),
			adt_avg_transaction = COALESCE($7, adt_avg_transaction),
			nps_score = COALESCE($8, nps_score),
			contests = COALESCE($9, contests),
			upcoming_sales = COALESCE($10, upcoming_sales),
			end_of_day_notes = COALESCE($11, end_of_day_notes),
			inventory_benches = COALESCE($12, inventory_benches),
			upcoming_education = COALESCE($13, upcoming_education),
			education_to_sold = COALESCE($14, education_to_sold),
			social_posts = COALESCE($15, social_posts),
			priorities = COALESCE($16, priorities),
			todos = COALESCE($17, todos),
			daily_operations = COALESCE($18, daily_operations),
			inventory_management = COALESCE($19, inventory_management),
			store_standards = COALESCE($20, store_standards),
			updated_at = NOW()
		WHERE id=$1
		RETURNING `+entryColumns+`
	`, entryID,
		patch.DailySales, patch.WTDActual, patch.MTDActual, patch.YTDActual,
		patch.AIFServiceGoal, patch.ADTAvgTransaction, patch.NPSScore,
		patch.Contests, patch.UpcomingSales, patch.EndOfDayNotes, patch.InventoryBenches,
		patch.UpcomingEducation, patch.EducationToSold, patch.SocialPosts,
		priorities, todos, dailyOps, invMgmt, standards)
	return scanEntry(row)
}

func marshalOptionalJSONB(set bool, value any) (any, error) {
	if !set {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *PostgresStore) UpdatePlannerEntryPhotos(ctx context.Context, entryID int64, photos []Photo) (PlannerEntry, error) {
	encoded, err := marshalJSONB(photos)
	if err != nil {
		return PlannerEntry{}, fmt.Errorf("encode photos: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE planner_entries SET photos=$2, updated_at=NOW() WHERE id=$1
		RETURNING `+entryColumns+`
	`, entryID, encoded)
	return scanEntry(row)
}

func (s *PostgresStore) ListPlannerEntriesForStore(ctx context.Context, storeID int64, limit int) ([]PlannerEntry, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM planner_entries
		WHERE store_id=$1
		ORDER BY date DESC
		LIMIT $2
	`, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list planner entries: %w", err)
	}
	defer rows.Close()

	items := make([]PlannerEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan planner entry: %w", err)
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate planner entries: %w", err)
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Staff schedules

const scheduleColumns = `id, planner_entry_id, staff_name, slot_8_to_9, slot_9_to_12, slot_12_to_4, slot_4_to_8`

func (s *PostgresStore) ListStaffSchedules(ctx context.Context, entryID int64) ([]StaffSchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scheduleColumns+` FROM staff_schedules WHERE planner_entry_id=$1 ORDER BY id
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("list staff schedules: %w", err)
	}
	defer rows.Close()

	items := make([]StaffSchedule, 0)
	for rows.Next() {
		var item StaffSchedule
		if err := rows.Scan(&item.ID, &item.PlannerEntryID, &item.StaffName, &item.Slot8To9, &item.Slot9To12, &item.Slot12To4, &item.Slot4To8); err != nil {
			return nil, fmt.Errorf("scan staff schedule: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff schedules: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetStaffSchedule(ctx context.Context, scheduleID int64) (StaffSchedule, error) {
	var item StaffSchedule
	err := s.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM staff_schedules WHERE id=$1`, scheduleID).
		Scan(&item.ID, &item.PlannerEntryID, &item.StaffName, &item.Slot8To9, &item.Slot9To12, &item.Slot12To4, &item.Slot4To8)
	if err != nil {
		return StaffSchedule{}, err
	}
	return item, nil
}

func (s *PostgresStore) CreateStaffSchedule(ctx context.Context, item StaffSchedule) (StaffSchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO staff_schedules (planner_entry_id, staff_name, slot_8_to_9, slot_9_to_12, slot_12_to_4, slot_4_to_8)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+scheduleColumns+`
	`, item.PlannerEntryID, item.StaffName, item.Slot8To9, item.Slot9To12, item.Slot12To4, item.Slot4To8)
	var created StaffSchedule
	if err := row.Scan(&created.ID, &created.PlannerEntryID, &created.StaffName, &created.Slot8To9, &created.Slot9To12, &created.Slot12To4, &created.Slot4To8); err != nil {
		return StaffSchedule{}, fmt.Errorf("insert staff schedule: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdateStaffSchedule(ctx context.Context, scheduleID int64, item StaffSchedule) (StaffSchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE staff_schedules
		SET staff_name=$2, slot_8_to_9=$3, slot_9_to_12=$4, slot_12_to_4=$5, slot_4_to_8=$6
		WHERE id=$1
		RETURNING `+scheduleColumns+`
	`, scheduleID, item.StaffName, item.Slot8To9, item.Slot9To12, item.Slot12To4, item.Slot4To8)
	var updated StaffSchedule
	if err := row.Scan(&updated.ID, &updated.PlannerEntryID, &updated.StaffName, &updated.Slot8To9, &updated.Slot9To12, &updated.Slot12To4, &updated.Slot4To8); err != nil {
		return StaffSchedule{}, err
	}
	return updated, nil
}

func (s *PostgresStore) DeleteStaffSchedule(ctx context.Context, scheduleID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM staff_schedules WHERE id=$1`, scheduleID)
	if err != nil {
		return fmt.Errorf("delete staff schedule: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Analytics

func (s *PostgresStore) ListAnalytics(ctx context.Context, scope rbac.Scope) ([]StoreAnalytics, error) {
	query := `
		SELECT id, store_id, month, sales_trend, staff_performance, goal_progress, created_at
		FROM store_analytics`
	args := []any{}
	if !scope.All {
		query += ` WHERE store_id = ANY($1)`
		args = append(args, scope.IDs)
	}
	query += ` ORDER BY month DESC, store_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}
	defer rows.Close()

	items := make([]StoreAnalytics, 0)
	for rows.Next() {
		var item StoreAnalytics
		if err := rows.Scan(&item.ID, &item.StoreID, &item.Month, &item.SalesTrend, &item.StaffPerformance, &item.GoalProgress, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analytics: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analytics: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertAnalytics(ctx context.Context, item StoreAnalytics) (StoreAnalytics, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO store_analytics (store_id, month, sales_trend, staff_performance, goal_progress)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, store_id, month, sales_trend, staff_performance, goal_progress, created_at
	`, item.StoreID, item.Month, item.SalesTrend, item.StaffPerformance, item.GoalProgress)
	var created StoreAnalytics
	if err := row.Scan(&created.ID, &created.StoreID, &created.Month, &created.SalesTrend, &created.StaffPerformance, &created.GoalProgress, &created.CreatedAt); err != nil {
		return StoreAnalytics{}, fmt.Errorf("insert analytics: %w", err)
	}
	return created, nil
}

// ---------------------------------------------------------------------------
// Reports

// StoreActivitySince aggregates per-store planner activity on or after
// sinceDate (YYYY-MM-DD), scoped like every other list query.
func (s *PostgresStore) StoreActivitySince(ctx context.Context, scope rbac.Scope, sinceDate string) ([]StoreActivity, error) {
	query := `
		SELECT s.id, s.store_number, s.name, s.location, s.is_active,
			COUNT(pe.id), MAX(pe.date)
		FROM stores s
		LEFT JOIN planner_entries pe ON pe.store_id = s.id AND pe.date >= $1
		WHERE s.is_active = TRUE`
	args := []any{sinceDate}
	if !scope.All {
		query += ` AND s.id = ANY($2)`
		args = append(args, scope.IDs)
	}
	query += `
		GROUP BY s.id, s.store_number, s.name, s.location, s.is_active
		ORDER BY s.store_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store activity: %w", err)
	}
	defer rows.Close()

	items := make([]StoreActivity, 0)
	for rows.Next() {
		var item StoreActivity
		if err := rows.Scan(&item.StoreID, &item.StoreNumber, &item.Name, &item.Location, &item.IsActive, &item.EntriesCount, &item.LastEntryDate); err != nil {
			return nil, fmt.Errorf("scan store activity: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store activity: %w", err)
	}
	return items, nil
}
