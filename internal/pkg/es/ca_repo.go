package es

import (
	"CAConnect/internal/pkg/util"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

// CASearchFilter narrows a directory search.
type CASearchFilter struct {
	City          string
	PracticeArea  string
	FeeBand       int8
	MinExperience int
	VerifiedOnly  bool
}

type CARepo interface {
	SearchCAs(ctx context.Context, queryText string, filter CASearchFilter, lastSortValues []interface{}, size int) ([]*CAES, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	GetCAByUserID(ctx context.Context, userID uint64) (*CAES, error)
	IndexCA(ctx context.Context, ca *CAES, version int64) error
	DeleteCA(ctx context.Context, userID uint64) error
	UpdateCADisplay(ctx context.Context, userID uint64, newDisplayName string, newAvatar string) error
}

type CARepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewCARepo(client *elasticsearch.TypedClient) CARepo {
	return &CARepoImpl{client: client}
}

// SearchCAs ranks accountants by text relevance when a query is given,
// otherwise by rating, paging with search-after.
func (s *CARepoImpl) SearchCAs(ctx context.Context, queryText string, filter CASearchFilter, lastSortValues []interface{}, size int) ([]*CAES, error) {
	boolQuery := &types.BoolQuery{
		Filter: s.buildFilters(filter),
	}

	if queryText != "" {
		boolQuery.Must = []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     queryText,
					Fields:    []string{"firm_name^3", "display_name^2", "about", "practice_areas^2"},
					Fuzziness: util.PtrStr("AUTO"),
				},
			},
		}
	}

	req := s.client.Search().Index(CAIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"rating": {Order: &sortorder.Desc},
			}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"user_id": {Order: &sortorder.Asc},
			}},
		).
		Size(size)

	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return s.executeSearch(ctx, req)
}

func (s *CARepoImpl) buildFilters(filter CASearchFilter) []types.Query {
	filters := make([]types.Query, 0, 5)

	if filter.City != "" {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"city": {Value: filter.City}},
		})
	}
	if filter.PracticeArea != "" {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"practice_areas": {Value: filter.PracticeArea}},
		})
	}
	if filter.FeeBand > 0 {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"fee_band": {Value: filter.FeeBand}},
		})
	}
	if filter.MinExperience > 0 {
		minExp := types.Float64(filter.MinExperience)
		filters = append(filters, types.Query{
			Range: map[string]types.RangeQuery{
				"experience_years": types.NumberRangeQuery{Gte: &minExp},
			},
		})
	}
	if filter.VerifiedOnly {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"is_verified": {Value: true}},
		})
	}

	return filters
}

func (s *CARepoImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	suggestKey := "ca-suggest"

	suggester := types.NewSuggester()
	suggester.Suggesters[suggestKey] = types.FieldSuggester{
		Prefix: &keyword,
		Completion: &types.CompletionSuggester{
			Field: "firm_name.suggestion",
			Fuzzy: &types.SuggestFuzziness{
				Fuzziness: util.PtrStr("AUTO"),
			},
			Size: util.PtrInt(5),
		},
	}

	res, err := s.client.Search().
		Index(CAIndex).
		Suggest(suggester).
		Size(0).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0)
	if results, ok := res.Suggest[suggestKey]; ok {
		for _, r := range results {
			if cs, ok := r.(*types.CompletionSuggest); ok {
				for _, opt := range cs.Options {
					suggestions = append(suggestions, opt.Text)
				}
			}
		}
	}
	return suggestions, nil
}

func (s *CARepoImpl) GetCAByUserID(ctx context.Context, userID uint64) (*CAES, error) {
	docID := strconv.FormatUint(userID, 10)
	result, err := s.client.Get(CAIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var ca CAES
	if err = json.Unmarshal(result.Source_, &ca); err != nil {
		return nil, err
	}
	if ca.PracticeAreas == nil {
		ca.PracticeAreas = make([]string, 0)
	}
	return &ca, nil
}

func (s *CARepoImpl) IndexCA(ctx context.Context, ca *CAES, version int64) error {
	docID := strconv.FormatUint(ca.UserID, 10)

	_, err := s.client.Index(CAIndex).
		Id(docID).
		Document(ca).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				log.Warn("Version conflict detected, skipping old data",
					"user_id", ca.UserID,
					"version", version)
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *CARepoImpl) DeleteCA(ctx context.Context, userID uint64) error {
	docID := strconv.FormatUint(userID, 10)
	_, err := s.client.Delete(CAIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				log.Warn("CA already deleted or not found in ES", "user_id", userID)
				return nil
			}
		}
		return err
	}
	return nil
}

// UpdateCADisplay rewrites the denormalized display fields after a profile
// edit.
func (s *CARepoImpl) UpdateCADisplay(ctx context.Context, userID uint64, newDisplayName string, newAvatar string) error {
	nameJSON, _ := json.Marshal(newDisplayName)
	avatarJSON, _ := json.Marshal(newAvatar)

	params := map[string]json.RawMessage{
		"new_name":   json.RawMessage(nameJSON),
		"new_avatar": json.RawMessage(avatarJSON),
	}

	scriptSource := "ctx._source.display_name = params.new_name; ctx._source.avatar_url = params.new_avatar;"

	req := s.client.UpdateByQuery(CAIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"user_id": {Value: userID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return fmt.Errorf("ca index: update display failed: %w", err)
	}

	if len(resp.Failures) != 0 {
		return fmt.Errorf("ca index: update display has failures, count: %d", len(resp.Failures))
	}

	return nil
}

func (s *CARepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*CAES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*CAES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var ca CAES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &ca); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			ca.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				ca.Sort[i] = v
			}
		}
		results = append(results, &ca)
	}
	return results, nil
}
