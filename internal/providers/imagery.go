package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ImageryClient calls the satellite imagery provider. Callers treat this
// source as degradable: a failed lookup turns into a null field, never a
// failed request.
type ImageryClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewImageryClient(baseURL, apiKey string) *ImageryClient {
	return &ImageryClient{baseURL: baseURL, apiKey: apiKey, client: &http.Client{}}
}

// Assets fetches imagery metadata for a coordinate.
func (n *ImageryClient) Assets(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("dim", "0.15")
	q.Set("api_key", n.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/assets?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create imagery request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("imagery", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read imagery response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("imagery provider returned malformed JSON")
	}
	return raw, nil
}
