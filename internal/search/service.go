package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to PG FTS.
type Service struct {
	meili *Meili
	pgfts *PgFTS
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, pgfts *PgFTS) *Service {
	return &Service{meili: meili, pgfts: pgfts}
}

// Search tries Meilisearch if healthy, otherwise falls back to PG FTS.
// An empty scope short-circuits to an empty result set.
func (s *Service) Search(q Query) Response {
	if !q.Scope.All && len(q.Scope.IDs) == 0 {
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}

	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to pgfts: %v", err)
	}

	results, total, err := s.pgfts.Search(q)
	if err != nil {
		log.Printf("search: pgfts error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexEntry indexes a day sheet (fire-and-forget to Meilisearch).
func (s *Service) IndexEntry(e EntryRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexEntry(e); err != nil {
			log.Printf("search: index entry %s: %v", e.ID, err)
		}
	}()
}

// IndexStore indexes a store (fire-and-forget to Meilisearch).
func (s *Service) IndexStore(rec StoreRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexStore(rec); err != nil {
			log.Printf("search: index store %s: %v", rec.ID, err)
		}
	}()
}

// DeleteEntry removes a day sheet from the search index (fire-and-forget).
func (s *Service) DeleteEntry(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteEntry(id); err != nil {
			log.Printf("search: delete entry %s: %v", id, err)
		}
	}()
}

// ReindexAllFromPG reindexes all searchable entities from PostgreSQL into Meilisearch.
// Called during Bootstrap when Meilisearch is healthy.
func (s *Service) ReindexAllFromPG(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() || s.pgfts == nil {
		return
	}
	entries, stores, err := s.pgfts.LoadAllRecords(ctx)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	if err := s.meili.IndexEntries(entries); err != nil {
		log.Printf("search: reindex entries: %v", err)
	}
	if err := s.meili.IndexStores(stores); err != nil {
		log.Printf("search: reindex stores: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
