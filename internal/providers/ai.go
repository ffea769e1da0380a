package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// aiTemperature is fixed for every inference call; assessments should be
// reproducible, not creative.
const aiTemperature = 0.3

// AIClient calls the AI inference gateway (OpenAI-compatible chat API).
// Exactly one attempt per call: inference is billed per token and the
// browser owns user-initiated retry.
type AIClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

func NewAIClient(baseURL, apiKey, model string, maxTokens int) *AIClient {
	return &AIClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{},
	}
}

// Complete sends a system+user prompt pair and returns the raw text of the
// first choice. Non-2xx statuses map to the upstream taxonomy.
func (a *AIClient) Complete(ctx context.Context, system, user string) (string, error) {
	payload := map[string]interface{}{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": aiTemperature,
		"max_tokens":  a.maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal AI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create AI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus("AI", resp.StatusCode)
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode AI response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", &UpstreamError{Provider: "AI", StatusCode: http.StatusOK}
	}
	return decoded.Choices[0].Message.Content, nil
}
