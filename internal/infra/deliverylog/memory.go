package deliverylog

import (
	"context"
	"sync"

	"github.com/yanqian/bonsai-care-bot/internal/domain/webhook"
)

const memoryLimit = 1024

// Memory is an in-process delivery log for tests and deployments without
// Postgres. It keeps the most recent records only.
type Memory struct {
	mu      sync.Mutex
	records []webhook.DeliveryRecord
}

// NewMemory constructs an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{}
}

// Record implements webhook.DeliveryLog.
func (m *Memory) Record(_ context.Context, record webhook.DeliveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	if len(m.records) > memoryLimit {
		m.records = m.records[len(m.records)-memoryLimit:]
	}
	return nil
}

// Recent returns a copy of the retained records, oldest first.
func (m *Memory) Recent() []webhook.DeliveryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]webhook.DeliveryRecord, len(m.records))
	copy(out, m.records)
	return out
}

var _ webhook.DeliveryLog = (*Memory)(nil)
