package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishQueuesEnvelope(t *testing.T) {
	h := NewHub(nil)

	h.Publish("stock_update", "sale_created", map[string]int{"stock": 3}, "Ana vendio 2 conos")

	raw := <-h.Broadcast
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "stock_update", msg.Type)
	assert.Equal(t, "sale_created", msg.Action)
	assert.Equal(t, "Ana vendio 2 conos", msg.Message)
	assert.False(t, msg.SentAt.IsZero())
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	h := NewHub(nil)
	for i := 0; i < cap(h.Broadcast)+5; i++ {
		h.Publish("stock_update", "noop", nil, "")
	}
	assert.Len(t, h.Broadcast, cap(h.Broadcast))
	assert.Equal(t, 0, h.ClientCount())
}
