package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	a := NewMessage(SenderUser, "hi")
	b := NewMessage(SenderUser, "hi")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, SenderUser, a.Sender)
}

func TestHistory_AddAndTrim(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(NewMessage(SenderUser, fmt.Sprintf("m%d", i)))
	}

	msgs := h.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "m2", msgs[0].Text)
	assert.Equal(t, "m4", msgs[2].Text)
}

func TestHistory_MessagesIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Add(NewMessage(SenderBot, "original"))

	msgs := h.Messages()
	msgs[0].Text = "changed"

	assert.Equal(t, "original", h.Messages()[0].Text)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(10)
	h.Add(NewMessage(SenderBot, "x"))
	h.Clear()

	assert.Equal(t, 0, h.Len())
}
