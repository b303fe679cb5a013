package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true. If Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

const entryTextExpr = `coalesce(pe.contests, '') || ' ' || coalesce(pe.upcoming_sales, '') || ' ' ||
	coalesce(pe.end_of_day_notes, '') || ' ' || coalesce(pe.inventory_benches, '') || ' ' ||
	coalesce(pe.upcoming_education, '') || ' ' || coalesce(pe.education_to_sold, '') || ' ' ||
	coalesce(pe.social_posts, '')`

// Search executes a UNION ALL query across planner_entries and stores
// using plainto_tsquery and ts_rank, with ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('english', $1)"
	args := []any{q.Text}
	argN := 2

	var subQueries []string

	// Day sheet sub-query
	if q.FilterType == "" || q.FilterType == ResultEntry {
		entryWhere := "pe.search_doc @@ " + tsQuery
		if !q.Scope.All {
			entryWhere += fmt.Sprintf(" AND pe.store_id = ANY($%d)", argN)
			args = append(args, q.Scope.IDs)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'entry'::text AS type, pe.id::text, pe.date::text AS title,
				ts_headline('english', %s, %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				pe.store_id, pe.date::text AS date,
				ts_rank(pe.search_doc, %s) AS rank
			FROM planner_entries pe
			WHERE %s`, entryTextExpr, tsQuery, tsQuery, entryWhere))
	}

	// Store sub-query
	if q.FilterType == "" || q.FilterType == ResultStore {
		storeDoc := "to_tsvector('english', s.store_number || ' ' || s.name || ' ' || coalesce(s.location, ''))"
		storeWhere := storeDoc + " @@ " + tsQuery + " AND s.is_active = TRUE"
		if !q.Scope.All {
			storeWhere += fmt.Sprintf(" AND s.id = ANY($%d)", argN)
			args = append(args, q.Scope.IDs)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'store'::text AS type, s.id::text, s.name AS title,
				ts_headline('english', coalesce(s.location, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				s.id AS store_id, ''::text AS date,
				ts_rank(%s, %s) AS rank
			FROM stores s
			WHERE %s`, tsQuery, storeDoc, tsQuery, storeWhere))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	// Count query
	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub",
		strings.Join(subQueries, " UNION ALL "))

	// Data query
	dataSQL := fmt.Sprintf(`SELECT type, id, title, snippet, store_id, date
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`,
		strings.Join(subQueries, " UNION ALL "),
		limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		if err := rows.Scan(&typ, &r.ID, &r.Title, &r.Snippet, &r.StoreID, &r.Date); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(typ)
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns all searchable records for full reindexing.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]EntryRecord, []StoreRecord, error) {
	entryRows, err := p.db.QueryContext(ctx, `
		SELECT pe.id::text, pe.store_id, pe.date::text, `+entryTextExpr+`
		FROM planner_entries pe
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load entries: %w", err)
	}
	defer entryRows.Close()

	entries := make([]EntryRecord, 0)
	for entryRows.Next() {
		var e EntryRecord
		if err := entryRows.Scan(&e.ID, &e.StoreID, &e.Date, &e.Body); err != nil {
			return nil, nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate entries: %w", err)
	}

	storeRows, err := p.db.QueryContext(ctx, `
		SELECT s.id::text, s.id, s.store_number, s.name, coalesce(s.location, '')
		FROM stores s
		WHERE s.is_active = TRUE
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load stores: %w", err)
	}
	defer storeRows.Close()

	stores := make([]StoreRecord, 0)
	for storeRows.Next() {
		var rec StoreRecord
		if err := storeRows.Scan(&rec.ID, &rec.StoreID, &rec.StoreNumber, &rec.Name, &rec.Location); err != nil {
			return nil, nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, rec)
	}
	if err := storeRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate stores: %w", err)
	}

	return entries, stores, nil
}
