package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// WeatherData is the normalized shape of one current-conditions reading.
type WeatherData struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
}

// WeatherClient calls the weather provider. One attempt per request; the
// provider is metered, so retries are the browser's decision, not ours.
type WeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWeatherClient(baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{baseURL: baseURL, apiKey: apiKey, client: &http.Client{}}
}

// Current fetches current conditions for a coordinate.
func (w *WeatherClient) Current(ctx context.Context, lat, lon float64) (*WeatherData, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("units", "metric")
	q.Set("appid", w.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("weather", resp.StatusCode)
	}

	var body struct {
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	data := &WeatherData{
		Temperature: body.Main.Temp,
		FeelsLike:   body.Main.FeelsLike,
		Humidity:    body.Main.Humidity,
		Pressure:    body.Main.Pressure,
		WindSpeed:   body.Wind.Speed,
		Location:    body.Name,
	}
	if len(body.Weather) > 0 {
		data.Condition = body.Weather[0].Main
		data.Description = body.Weather[0].Description
	}
	return data, nil
}
