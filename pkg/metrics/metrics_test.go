package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/stretchr/testify/assert"
)

func TestMetricsExposition(t *testing.T) {
	m := New(config.MetricsConfig{Namespace: "pairtalk"})

	m.ConnOpened()
	m.ConnOpened()
	m.ConnClosed()
	m.FrameRouted("chat_message", OutcomeDelivered)
	m.FrameRouted("bogus", OutcomeDropped)
	m.Delivered("chat_message", 2)
	m.StoreAppendFailed()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, body, "pairtalk_chat_active_connections 1")
	assert.Contains(t, body, `pairtalk_chat_frames_total{kind="chat_message",outcome="delivered"} 1`)
	assert.Contains(t, body, `pairtalk_chat_frames_total{kind="bogus",outcome="dropped"} 1`)
	assert.Contains(t, body, `pairtalk_chat_deliveries_total{kind="chat_message"} 2`)
	assert.Contains(t, body, "pairtalk_chat_store_append_failures_total 1")
}
