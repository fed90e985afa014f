package weathercache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
)

// ValkeyStore caches readings in a Valkey-compatible database so concurrent
// instances share one provider quota.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

type readingWire struct {
	Temperature        float64 `json:"temp"`
	Humidity           float64 `json:"humidity"`
	UVIndex            float64 `json:"uv"`
	WindSpeed          float64 `json:"wind"`
	PrecipProbability  float64 `json:"rainProb"`
	PrecipSum          float64 `json:"rainSum"`
	DaytimeAvgHumidity float64 `json:"daytimeHumidity"`
}

// Get implements forecast.Store.
func (s *ValkeyStore) Get(ctx context.Context, key string) (forecast.Reading, bool, error) {
	cmd := s.client.B().Get().Key(s.prefix + ":" + key).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return forecast.Reading{}, false, nil
		}
		return forecast.Reading{}, false, err
	}
	var wire readingWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return forecast.Reading{}, false, err
	}
	return forecast.Reading(wire), true, nil
}

// Save implements forecast.Store.
func (s *ValkeyStore) Save(ctx context.Context, key string, reading forecast.Reading, ttl time.Duration) error {
	payload, err := json.Marshal(readingWire(reading))
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.prefix + ":" + key).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

var _ forecast.Store = (*ValkeyStore)(nil)
