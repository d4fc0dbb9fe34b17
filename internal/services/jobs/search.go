// internal/services/jobs/search.go
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	stderrors "workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex = errors.New("index name is required")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Search queries the job index
type Search struct {
	client *elasticsearch.Client
	index  string
}

func NewSearch(client *elasticsearch.Client, index string) *Search {
	return &Search{client: client, index: index}
}

// BuildQuery builds the Elasticsearch search request for a job query
func BuildQuery(index string, query models.JobSearchQuery) (*esapi.SearchRequest, error) {
	if index == "" {
		return nil, ErrMissingIndex
	}

	body, err := json.Marshal(buildJobSearchBody(query))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	from := pageOffset(query)
	size := pageSize(query)

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	return &req, nil
}

// buildJobSearchBody builds the bool query from the search filters
func buildJobSearchBody(query models.JobSearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if query.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query.Keywords,
				"fields": []string{"title^3", "description^2", "company"},
				"type":   "best_fields",
			},
		})
	}

	if query.Location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"location": query.Location},
		})
	}

	if query.JobType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"job_type": query.JobType},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"sort": []interface{}{
			map[string]interface{}{"posted_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

func pageSize(query models.JobSearchQuery) int {
	size := query.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size
}

func pageOffset(query models.JobSearchQuery) int {
	page := query.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize(query)
}

// searchResponse is the subset of the ES response body we read
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.JobListing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Query runs the search and returns matching listings
func (s *Search) Query(ctx context.Context, query models.JobSearchQuery) (*models.JobSearchResult, error) {
	req, err := BuildQuery(s.index, query)
	if err != nil {
		if errors.Is(err, ErrMissingIndex) {
			return nil, stderrors.NewIndexNotFoundError(s.index)
		}
		return nil, stderrors.NewSearchQueryFailedError("job_search", err)
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewSearchTimeoutError("job_search")
		}
		return nil, stderrors.NewSearchQueryFailedError("job_search", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, stderrors.NewSearchQueryFailedError("job_search",
			fmt.Errorf("status %s: %s", res.Status(), string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, stderrors.NewSearchQueryFailedError("job_search", err)
	}

	result := &models.JobSearchResult{
		Jobs:  make([]models.JobListing, 0, len(parsed.Hits.Hits)),
		Total: parsed.Hits.Total.Value,
	}
	for _, hit := range parsed.Hits.Hits {
		result.Jobs = append(result.Jobs, hit.Source)
	}

	return result, nil
}
