package metrics

import "sync/atomic"

// Counters tracks process-wide webhook and push outcomes. All methods are
// safe for concurrent use.
type Counters struct {
	acknowledged     atomic.Int64
	repliesSent      atomic.Int64
	repliesFailed    atomic.Int64
	eventsDropped    atomic.Int64
	pushesSent       atomic.Int64
	pushesFailed     atomic.Int64
	weatherFallbacks atomic.Int64
}

// NewCounters constructs a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) Acknowledged()    { c.acknowledged.Add(1) }
func (c *Counters) ReplySent()       { c.repliesSent.Add(1) }
func (c *Counters) ReplyFailed()     { c.repliesFailed.Add(1) }
func (c *Counters) EventDropped()    { c.eventsDropped.Add(1) }
func (c *Counters) PushSent()        { c.pushesSent.Add(1) }
func (c *Counters) PushFailed()      { c.pushesFailed.Add(1) }
func (c *Counters) WeatherFallback() { c.weatherFallbacks.Add(1) }

// Snapshot captures the current counter values for reporting.
type Snapshot struct {
	Acknowledged     int64 `json:"acknowledged"`
	RepliesSent      int64 `json:"repliesSent"`
	RepliesFailed    int64 `json:"repliesFailed"`
	EventsDropped    int64 `json:"eventsDropped"`
	PushesSent       int64 `json:"pushesSent"`
	PushesFailed     int64 `json:"pushesFailed"`
	WeatherFallbacks int64 `json:"weatherFallbacks"`
}

// Snapshot returns a point-in-time copy of all counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Acknowledged:     c.acknowledged.Load(),
		RepliesSent:      c.repliesSent.Load(),
		RepliesFailed:    c.repliesFailed.Load(),
		EventsDropped:    c.eventsDropped.Load(),
		PushesSent:       c.pushesSent.Load(),
		PushesFailed:     c.pushesFailed.Load(),
		WeatherFallbacks: c.weatherFallbacks.Load(),
	}
}
