package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func aiServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAIClientStatusTaxonomy(t *testing.T) {
	cases := []struct {
		status  int
		sentry  error
		generic bool
	}{
		{429, ErrUpstreamRateLimited, false},
		{402, ErrQuotaExhausted, false},
		{500, nil, true},
		{503, nil, true},
	}
	for _, tc := range cases {
		srv := aiServer(t, tc.status, "")
		client := NewAIClient(srv.URL, "test-key", "test-model", 500)
		_, err := client.Complete(context.Background(), "sys", "user")
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if tc.generic {
			var ue *UpstreamError
			if !errors.As(err, &ue) {
				t.Errorf("status %d: got %v, want UpstreamError", tc.status, err)
			} else if ue.StatusCode != tc.status {
				t.Errorf("status %d: UpstreamError carries %d", tc.status, ue.StatusCode)
			}
		} else if !errors.Is(err, tc.sentry) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.sentry)
		}
	}
}

func TestDetectAnomaliesParsesEmbeddedJSON(t *testing.T) {
	content := `Assessment complete. {"hasAnomaly": true, "severity": "critical",
"anomalyType": "wildfire", "confidence": 91, "description": "Smoke plume detected",
"recommendation": "Evacuate the area", "riskFactors": {"immediateRisk": true,
"populationRisk": true, "factors": ["drought"]}, "forecastTrend": "worsening"} Stay safe.`
	srv := aiServer(t, http.StatusOK, content)
	defer srv.Close()

	client := NewAIClient(srv.URL, "test-key", "test-model", 500)
	result, err := client.DetectAnomalies(context.Background(), DetectionInput{Latitude: 34.1, Longitude: -118.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasAnomaly || result.Severity != "critical" || result.Confidence != 91 {
		t.Errorf("got %+v", result)
	}
	if !result.RiskFactors.ImmediateRisk {
		t.Errorf("immediateRisk not carried through")
	}
}

func TestDetectAnomaliesFallsBackWithoutJSON(t *testing.T) {
	srv := aiServer(t, http.StatusOK, "I could not produce a structured assessment, sorry.")
	defer srv.Close()

	client := NewAIClient(srv.URL, "test-key", "test-model", 500)
	result, err := client.DetectAnomalies(context.Background(), DetectionInput{Latitude: 1, Longitude: 2})
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if result.HasAnomaly {
		t.Errorf("fallback reported an anomaly: %+v", result)
	}
	if result.Confidence != 0 {
		t.Errorf("fallback confidence = %v, want 0", result.Confidence)
	}
}

func TestPredictConditionsFallsBackWithoutJSON(t *testing.T) {
	srv := aiServer(t, http.StatusOK, "all clear, nothing structured to report")
	defer srv.Close()

	client := NewAIClient(srv.URL, "test-key", "test-model", 500)
	result, err := client.PredictConditions(context.Background(), PredictionInput{Latitude: 1, Longitude: 2})
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if result.RiskLevel != "low" {
		t.Errorf("fallback risk level = %q, want low", result.RiskLevel)
	}
}

func TestAnalyzePatternsReturnsRawText(t *testing.T) {
	srv := aiServer(t, http.StatusOK, "The dataset shows a warming trend.")
	defer srv.Close()

	client := NewAIClient(srv.URL, "test-key", "test-model", 500)
	got, err := client.AnalyzePatterns(context.Background(), json.RawMessage(`{"series":[1,2]}`), "general")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The dataset shows a warming trend." {
		t.Errorf("analysis = %q", got)
	}
}

func TestWeatherClientStatusTaxonomy(t *testing.T) {
	for _, status := range []int{429, 500} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		client := NewWeatherClient(srv.URL, "key")
		_, err := client.Current(context.Background(), 10, 20)
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if status == 429 && !errors.Is(err, ErrUpstreamRateLimited) {
			t.Errorf("status 429: got %v", err)
		}
	}
}

func TestWeatherClientMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "key" {
			t.Errorf("appid missing from query")
		}
		fmt.Fprint(w, `{"weather":[{"main":"Rain","description":"light rain"}],
"main":{"temp":17.2,"feels_like":16.8,"humidity":88,"pressure":1002},
"wind":{"speed":5.1},"name":"Port City"}`)
	}))
	defer srv.Close()

	client := NewWeatherClient(srv.URL, "key")
	data, err := client.Current(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Temperature != 17.2 || data.Condition != "Rain" || data.Location != "Port City" {
		t.Errorf("got %+v", data)
	}
}
