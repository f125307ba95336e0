package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ripple/internal/observability"
)

// HTTPStore uploads media to an external HTTP media service.
type HTTPStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPStore creates a store client for the media service at baseURL.
func NewHTTPStore(baseURL, apiKey string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPStore) Upload(ctx context.Context, in Input, kind Kind) (*Upload, error) {
	var req *http.Request
	var err error

	switch v := in.(type) {
	case Bytes:
		req, err = s.newMultipartRequest(ctx, v, kind)
	case EncodedRef:
		req, err = s.newRefRequest(ctx, string(v), kind)
	default:
		return nil, fmt.Errorf("unsupported media input %T", in)
	}
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		observability.MediaUploadFailures.Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		observability.MediaUploadFailures.Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("media store upload returned %d: %s", resp.StatusCode, body)
	}

	var up Upload
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		observability.MediaUploadFailures.Inc()
		return nil, fmt.Errorf("decode media store response: %w", err)
	}
	if up.URL == "" || up.DeleteID == "" {
		observability.MediaUploadFailures.Inc()
		return nil, fmt.Errorf("media store returned incomplete upload result")
	}
	return &up, nil
}

func (s *HTTPStore) Delete(ctx context.Context, deleteID string) error {
	url := fmt.Sprintf("%s/v1/media/%s", s.baseURL, deleteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("media store delete returned %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) newMultipartRequest(ctx context.Context, in Bytes, kind Kind) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := in.Filename
	if filename == "" {
		filename = "upload"
	}
	part, err := w.CreateFormFile("media", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, err
	}
	if err := w.WriteField("kind", string(kind)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/media", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

func (s *HTTPStore) newRefRequest(ctx context.Context, ref string, kind Kind) (*http.Request, error) {
	payload, err := json.Marshal(map[string]string{
		"ref":  ref,
		"kind": string(kind),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/media", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (s *HTTPStore) do(req *http.Request) (*http.Response, error) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return s.client.Do(req)
}
