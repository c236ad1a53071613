package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

const DefaultBugIndex = "bugs"

type BugDocument struct {
	ID          uint   `json:"bugId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   uint   `json:"projectId"`
	CreatedDate string `json:"createdDate"`
}

func DocumentFromBug(b *models.Bug) BugDocument {
	return BugDocument{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Priority:    string(b.Priority),
		ProjectID:   b.ProjectID,
		CreatedDate: b.CreatedDate.Format("2006-01-02"),
	}
}

// BugIndex keeps bug documents searchable by title and description.
type BugIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewBugIndex(client *elasticsearch.Client, index string) *BugIndex {
	if index == "" {
		index = DefaultBugIndex
	}
	return &BugIndex{client: client, index: index}
}

func (i *BugIndex) IndexBug(ctx context.Context, b *models.Bug) error {
	data, err := json.Marshal(DocumentFromBug(b))
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(data),
		i.client.Index.WithDocumentID(strconv.FormatUint(uint64(b.ID), 10)),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es index: %s: %s", res.Status(), body)
	}
	return nil
}

// DeleteBug removes a document; a document that is already gone is not an error.
func (i *BugIndex) DeleteBug(ctx context.Context, id uint) error {
	res, err := i.client.Delete(
		i.index,
		strconv.FormatUint(uint64(id), 10),
		i.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es delete: %s: %s", res.Status(), body)
	}
	return nil
}

func buildSearchQuery(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
}

func (i *BugIndex) Search(ctx context.Context, query string, from, size int) (int64, []BugDocument, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildSearchQuery(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("es search: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("es search: %s: %s", res.Status(), body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source BugDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es search decode: %w", err)
	}

	docs := make([]BugDocument, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		docs[n] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
