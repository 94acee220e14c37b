package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	deliveryCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		deliveryCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordDelivery counts notification channel outcomes.
func (m *Metrics) RecordDelivery(channel string, succeeded bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !succeeded {
		outcome = "failed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveryCount[channel+"|"+outcome]++
}

// DeliveryCount reads a channel outcome counter, mostly for tests and debug
// endpoints.
func (m *Metrics) DeliveryCount(channel string, succeeded bool) int64 {
	if m == nil {
		return 0
	}
	outcome := "sent"
	if !succeeded {
		outcome = "failed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveryCount[channel+"|"+outcome]
}
