// internal/pkg/monitor/collector_test.go
package monitor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_RecordRequest(t *testing.T) {
	c := NewCollector()

	c.RecordRequest(200)
	c.RecordRequest(201)
	c.RecordRequest(404)
	c.RecordRequest(422)
	c.RecordRequest(500)

	snap := c.Snapshot()
	assert.Equal(t, int64(5), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.StatusClasses["2xx"])
	assert.Equal(t, int64(1), snap.StatusClasses["404"])
	assert.Equal(t, int64(1), snap.StatusClasses["4xx"])
	assert.Equal(t, int64(1), snap.StatusClasses["5xx"])
}

func TestCollector_WebhookCounters(t *testing.T) {
	c := NewCollector()

	c.RecordWebhookEvent(true)
	c.RecordWebhookEvent(true)
	c.RecordWebhookEvent(false)
	c.RecordUnmappedStatus("XYZ")
	c.RecordUnmappedStatus("XYZ")

	snap := c.Snapshot()
	assert.Equal(t, int64(3), snap.WebhookReceived)
	assert.Equal(t, int64(2), snap.WebhookApplied)
	assert.Equal(t, int64(1), snap.WebhookSkipped)
	assert.Equal(t, int64(2), snap.UnmappedCodes["XYZ"])
}

func TestCollector_CrashRingBuffer(t *testing.T) {
	c := NewCollector()

	for i := 0; i < 15; i++ {
		c.RecordCrash("GET", "/api/orders", errors.New("boom"))
	}

	snap := c.Snapshot()
	assert.Len(t, snap.RecentCrashes, maxRecentCrashes)
	assert.Equal(t, "boom", snap.RecentCrashes[0].Error)
}

func TestCollector_SlowRoutes(t *testing.T) {
	c := NewCollector()

	c.RecordSlowRoute("POST", "/api/webhook/rapidshyp", 1200*time.Millisecond)

	snap := c.Snapshot()
	assert.Len(t, snap.SlowRoutes, 1)
	assert.Equal(t, "POST /api/webhook/rapidshyp", snap.SlowRoutes[0].Route)
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.RecordRequest(200)
				c.RecordWebhookEvent(true)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(1000), snap.TotalRequests)
	assert.Equal(t, int64(1000), snap.WebhookReceived)
}
