package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// Storage is a minimal REST client to Qdrant. Each Storage owns one
// collection, created on the first Add and dropped by Close.
type Storage struct {
	url        string
	apiKey     string
	collection string
	distance   string
	client     *http.Client

	mu        sync.Mutex
	dimension int
	count     int
}

type Config struct {
	URL              string
	APIKey           string
	CollectionPrefix string
	Distance         string
	Timeout          time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	prefix := cfg.CollectionPrefix
	if prefix == "" {
		prefix = "grasp"
	}
	distance := cfg.Distance
	if distance == "" {
		distance = "Cosine"
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: prefix + "-" + uuid.NewString(),
		distance:   distance,
		client:     &http.Client{Timeout: timeout},
	}
}

// Collection is the name of the collection owned by s.
func (s *Storage) Collection() string { return s.collection }

func (s *Storage) Add(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		if err := s.createCollection(ctx, len(vectors[0])); err != nil {
			return err
		}
		s.dimension = len(vectors[0])
	}
	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		if len(vectors[i]) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		points[i] = map[string]any{
			"id":     uuid.NewString(),
			"vector": vectors[i],
			"payload": map[string]any{
				"chunk_id":     chunks[i].ID,
				"index":        chunks[i].Index,
				"start_offset": chunks[i].StartOffset,
				"text":         chunks[i].Text,
				"metadata":     chunks[i].Metadata,
			},
		}
	}
	body := map[string]any{"points": points}
	if err := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body, nil); err != nil {
		return err
	}
	s.count += len(chunks)
	return nil
}

func (s *Storage) createCollection(ctx context.Context, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": s.distance,
		},
	}
	return s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if s.Len() == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = 4
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				ChunkID     string            `json:"chunk_id"`
				Index       int               `json:"index"`
				StartOffset int               `json:"start_offset"`
				Text        string            `json:"text"`
				Metadata    map[string]string `json:"metadata"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		score := r.Score
		if s.distance == "Euclid" {
			// Qdrant reports the distance for Euclid; keep higher-is-better.
			score = -score
		}
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{
				ID:          r.Payload.ChunkID,
				Index:       r.Payload.Index,
				StartOffset: r.Payload.StartOffset,
				Text:        r.Payload.Text,
				Metadata:    r.Payload.Metadata,
			},
			Score: score,
		})
	}
	return results, nil
}

func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Close drops the collection.
func (s *Storage) Close(ctx context.Context) error {
	s.mu.Lock()
	created := s.dimension > 0
	s.dimension, s.count = 0, 0
	s.mu.Unlock()
	if !created {
		return nil
	}
	return s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil, nil)
}

func (s *Storage) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

