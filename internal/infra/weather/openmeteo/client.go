package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const (
	currentFields = "temperature_2m,relative_humidity_2m,uv_index,wind_speed_10m,precipitation"
	hourlyFields  = "relative_humidity_2m,precipitation_probability"
	dailyFields   = "temperature_2m_max,precipitation_probability_max,precipitation_sum,uv_index_max,wind_speed_10m_max,wind_gusts_10m_max"
)

// Client fetches forecasts from the Open-Meteo API.
type Client struct {
	baseURL    string
	timezone   string
	httpClient *http.Client
}

// NewClient builds an API client. The per-attempt deadline is owned by the
// caller's context, so no client-level timeout is set here.
func NewClient(baseURL, timezone string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if strings.TrimSpace(timezone) == "" {
		timezone = "Asia/Taipei"
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		timezone:   timezone,
		httpClient: &http.Client{},
	}
}

// Fetch retrieves and normalizes a single forecast for the coordinates.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (forecast.Reading, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("timezone", c.timezone)
	query.Set("current", currentFields)
	query.Set("hourly", hourlyFields)
	query.Set("daily", dailyFields)
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return forecast.Reading{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return forecast.Reading{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return forecast.Reading{}, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return forecast.Reading{}, fmt.Errorf("read forecast response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.Reading{}, fmt.Errorf("decode forecast response: %w", err)
	}

	return normalize(raw)
}

type apiResponse struct {
	Current currentBlock `json:"current"`
	Hourly  hourlyBlock  `json:"hourly"`
	Daily   dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Temperature      float64 `json:"temperature_2m"`
	RelativeHumidity float64 `json:"relative_humidity_2m"`
	UVIndex          float64 `json:"uv_index"`
	WindSpeed        float64 `json:"wind_speed_10m"`
	Precipitation    float64 `json:"precipitation"`
}

type hourlyBlock struct {
	Time                     []string  `json:"time"`
	RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
}

type dailyBlock struct {
	TemperatureMax          []float64 `json:"temperature_2m_max"`
	PrecipProbabilityMax    []float64 `json:"precipitation_probability_max"`
	PrecipitationSum        []float64 `json:"precipitation_sum"`
	UVIndexMax              []float64 `json:"uv_index_max"`
	WindSpeedMax            []float64 `json:"wind_speed_10m_max"`
	WindGustsMax            []float64 `json:"wind_gusts_10m_max"`
}

func normalize(raw apiResponse) (forecast.Reading, error) {
	if len(raw.Daily.TemperatureMax) == 0 {
		return forecast.Reading{}, fmt.Errorf("forecast payload missing daily data")
	}

	wind := raw.Current.WindSpeed
	if len(raw.Daily.WindGustsMax) > 0 {
		wind = raw.Daily.WindGustsMax[0]
	} else if len(raw.Daily.WindSpeedMax) > 0 {
		wind = raw.Daily.WindSpeedMax[0]
	}

	return forecast.Reading{
		Temperature:        raw.Daily.TemperatureMax[0],
		Humidity:           raw.Current.RelativeHumidity,
		UVIndex:            firstOr(raw.Daily.UVIndexMax, raw.Current.UVIndex),
		WindSpeed:          wind,
		PrecipProbability:  firstOr(raw.Daily.PrecipProbabilityMax, 0),
		PrecipSum:          firstOr(raw.Daily.PrecipitationSum, 0),
		DaytimeAvgHumidity: daytimeHumidity(raw.Hourly.Time, raw.Hourly.RelativeHumidity),
	}, nil
}

// daytimeHumidity averages the hourly samples whose local hour-of-day falls
// in [9,17]. An empty window divides by 1 so the result degrades to 0.
func daytimeHumidity(times []string, humidity []float64) float64 {
	sum := 0.0
	count := 0
	for i, ts := range times {
		if i >= len(humidity) {
			break
		}
		hour, ok := localHour(ts)
		if !ok {
			continue
		}
		if hour >= 9 && hour <= 17 {
			sum += humidity[i]
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return sum / float64(count)
}

// localHour extracts the hour from an Open-Meteo local timestamp
// ("2006-01-02T15:04").
func localHour(value string) (int, bool) {
	ts, err := time.Parse("2006-01-02T15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return ts.Hour(), true
}

func firstOr(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

var _ forecast.Client = (*Client)(nil)
