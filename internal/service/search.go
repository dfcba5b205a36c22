package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"bgcapi/internal/model"
	"bgcapi/internal/query"
	"bgcapi/internal/repository"
	"bgcapi/internal/storage"
)

var ErrEmptyQuery = errors.New("search string is required")

// SearchResult is the service-level DTO for one search.
type SearchResult struct {
	Total    int               `json:"total"`
	Stats    model.SearchStats `json:"stats"`
	Clusters []model.Cluster   `json:"clusters"`
}

// SearchService defines the use cases for searching gene clusters.
type SearchService interface {
	// Search runs the query and returns the requested page of cluster records
	// plus summary stats over the full result set. paginate == 0 disables
	// pagination and returns everything from offset on.
	Search(ctx context.Context, q string, offset, paginate int) (*SearchResult, error)

	// ExportCSV renders the full result set as tab-separated rows with a
	// leading header row.
	ExportCSV(ctx context.Context, q string) (string, error)

	// ExportArchive writes the CSV export to object storage and returns a
	// presigned download URL.
	ExportArchive(ctx context.Context, q string) (string, error)

	// Available lists stored terms with the given prefix for an autocomplete
	// category. Both inputs are sanitized here.
	Available(ctx context.Context, category, term string) ([]string, error)
}

// searchService is a concrete implementation of SearchService.
type searchService struct {
	repo          repository.ClusterRepository
	store         storage.Storage
	presignExpiry time.Duration
}

// NewSearchService constructs a new SearchService.
func NewSearchService(repo repository.ClusterRepository, store storage.Storage, presignExpiry time.Duration) SearchService {
	return &searchService{repo: repo, store: store, presignExpiry: presignExpiry}
}

func (s *searchService) Search(ctx context.Context, q string, offset, paginate int) (*SearchResult, error) {
	ids, err := s.matchingClusters(ctx, q)
	if err != nil {
		return nil, err
	}

	res := &SearchResult{Total: len(ids), Clusters: []model.Cluster{}}
	if len(ids) == 0 {
		return res, nil
	}

	byType, err := s.repo.StatsByType(ctx, ids)
	if err != nil {
		return nil, err
	}
	byPhylum, err := s.repo.StatsByPhylum(ctx, ids)
	if err != nil {
		return nil, err
	}
	res.Stats = model.SearchStats{ClustersByType: byType, ClustersByPhylum: byPhylum}

	if offset < 0 {
		offset = 0
	}
	if paginate < 0 {
		paginate = 0
	}
	if offset >= len(ids) {
		return res, nil
	}
	end := len(ids)
	if paginate > 0 && offset+paginate < end {
		end = offset + paginate
	}

	records, err := s.repo.ClusterRecords(ctx, ids[offset:end])
	if err != nil {
		return nil, err
	}
	res.Clusters = records
	return res, nil
}

func (s *searchService) ExportCSV(ctx context.Context, q string) (string, error) {
	ids, err := s.matchingClusters(ctx, q)
	if err != nil {
		return "", err
	}
	records, err := s.repo.ClusterRecords(ctx, ids)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("#" + strings.Join(model.CSVColumns, "\t") + "\n")
	for _, rec := range records {
		b.WriteString(rec.CSV())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (s *searchService) ExportArchive(ctx context.Context, q string) (string, error) {
	csv, err := s.ExportCSV(ctx, q)
	if err != nil {
		return "", err
	}

	key := path.Join("exports", uuid.New().String()+".csv")
	_, err = s.store.Put(ctx, key, strings.NewReader(csv), storage.PutObjectOptions{
		Size:        int64(len(csv)),
		ContentType: "text/tab-separated-values",
		Metadata: map[string]string{
			"search-query": query.Sanitize(q),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload export archive: %w", err)
	}

	return s.store.PresignGet(ctx, key, s.presignExpiry)
}

func (s *searchService) Available(ctx context.Context, category, term string) ([]string, error) {
	return s.repo.AvailableTerms(ctx, query.Sanitize(category), query.Sanitize(term))
}

// matchingClusters resolves the query into terms, fetches the per-term cluster
// sets and combines them left to right: "or" adds, "not" removes and anything
// else intersects, starting from the union of all sets.
func (s *searchService) matchingClusters(ctx context.Context, q string) ([]int64, error) {
	if strings.TrimSpace(q) == "" {
		return nil, ErrEmptyQuery
	}

	terms, err := s.resolveTerms(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, nil
	}

	sets := make([]map[int64]struct{}, len(terms))
	all := map[int64]struct{}{}
	for i, term := range terms {
		ids, err := s.repo.ClustersByCategory(ctx, term.Category, term.Value)
		if err != nil {
			return nil, err
		}
		sets[i] = toSet(ids)
		for id := range sets[i] {
			all[id] = struct{}{}
		}
	}

	final := make(map[int64]struct{}, len(all))
	for id := range all {
		final[id] = struct{}{}
	}
	for i, term := range terms {
		switch term.Op {
		case query.OpOr:
			for id := range sets[i] {
				final[id] = struct{}{}
			}
		case query.OpNot:
			for id := range sets[i] {
				delete(final, id)
			}
		default:
			for id := range final {
				if _, ok := sets[i][id]; !ok {
					delete(final, id)
				}
			}
		}
	}

	ids := make([]int64, 0, len(final))
	for id := range final {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// resolveTerms parses the bracketed syntax directly; bare words are resolved
// against the database, falling back to a compound sequence substring match.
func (s *searchService) resolveTerms(ctx context.Context, q string) ([]query.Term, error) {
	if query.IsBracketed(q) {
		return query.Parse(q), nil
	}

	var terms []query.Term
	for _, word := range query.Words(q) {
		category, canonical, ok, err := s.repo.GuessCategory(ctx, word)
		if err != nil {
			return nil, err
		}
		if !ok {
			category, canonical = repository.CategoryCompoundSeq, word
		}
		terms = append(terms, query.Term{Category: category, Value: canonical, Op: query.OpAnd})
	}
	return terms, nil
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
