package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cozyberries-backend/domain/collections"
	"cozyberries-backend/pkg/common"
)

// HTTPRemote talks to the storefront API's cart/wishlist endpoints as the
// remote side of a syncer.
type HTTPRemote struct {
	baseURL string
	kind    collections.Kind
	token   string
	client  *http.Client
}

// NewHTTPRemote creates a remote for one collection kind. The token is the
// bearer token of the signed-in session.
func NewHTTPRemote(baseURL string, kind collections.Kind, token string) *HTTPRemote {
	return &HTTPRemote{
		baseURL: baseURL,
		kind:    kind,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *HTTPRemote) endpoint() string {
	return r.baseURL + "/api/v1/" + string(r.kind)
}

// Fetch implements Remote.
func (r *HTTPRemote) Fetch(ctx context.Context) (collections.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Success bool                   `json:"success"`
		Data    collections.Collection `json:"data"`
		Error   *common.ErrorInfo      `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", r.kind, err)
	}
	if !body.Success {
		if body.Error != nil {
			return nil, fmt.Errorf("fetching %s: %s", r.kind, body.Error.Message)
		}
		return nil, fmt.Errorf("fetching %s: status %d", r.kind, resp.StatusCode)
	}
	return body.Data, nil
}

// Push implements Remote with a wholesale replace.
func (r *HTTPRemote) Push(ctx context.Context, items collections.Collection) error {
	payload, err := json.Marshal(map[string]collections.Collection{"items": items})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushing %s: status %d", r.kind, resp.StatusCode)
	}
	return nil
}
