package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
	"github.com/kavyatex/sareebook/internal/common"
)

// HTTPSource talks JSON over HTTP to the hosted order service. Token handling
// beyond attaching the bearer header is owned by the host application.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPSource(baseURL, token string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func mapStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: unexpected status %d", common.ErrRemote, code)
	}
}

// do sends one request and decodes the response into out (when non-nil).
func (s *HTTPSource) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *HTTPSource) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/ping", nil, nil, nil)
}

type insertRequest struct {
	models.OrderPayload
	UserID string `json:"user_id"`
}

func (s *HTTPSource) Insert(ctx context.Context, userID string, p models.OrderPayload) (*models.Order, error) {
	var o models.Order
	err := s.do(ctx, http.MethodPost, "/orders", nil, insertRequest{OrderPayload: p, UserID: userID}, &o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *HTTPSource) Update(ctx context.Context, id, userID string, c models.OrderChanges) error {
	q := url.Values{"user_id": {userID}}
	return s.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id), q, c, nil)
}

func (s *HTTPSource) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil, nil)
}

func (s *HTTPSource) Select(ctx context.Context, q Query) ([]models.Order, error) {
	if q.ID != "" {
		var o models.Order
		vals := url.Values{"user_id": {q.UserID}}
		err := s.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(q.ID), vals, nil, &o)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []models.Order{o}, nil
	}

	vals := url.Values{"user_id": {q.UserID}}
	if q.Status != "" {
		vals.Set("status", string(q.Status))
	}
	if q.DateField != "" {
		vals.Set("date_field", string(q.DateField))
	}
	if !q.From.IsZero() {
		vals.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		vals.Set("to", q.To.UTC().Format(time.RFC3339))
	}

	var list []models.Order
	if err := s.do(ctx, http.MethodGet, "/orders", vals, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *HTTPSource) SelectIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	vals := url.Values{"user_id": {userID}}
	if err := s.do(ctx, http.MethodGet, "/orders/ids", vals, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *HTTPSource) SelectChangedSince(ctx context.Context, userID string, watermark time.Time) ([]models.Order, error) {
	vals := url.Values{"user_id": {userID}}
	if !watermark.IsZero() {
		vals.Set("since", watermark.UTC().Format(time.RFC3339Nano))
	}

	var list []models.Order
	if err := s.do(ctx, http.MethodGet, "/orders/changes", vals, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
