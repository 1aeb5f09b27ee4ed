package engine_test

import (
	"testing"

	"atrium/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	legal := []struct {
		from engine.Status
		ev   engine.Event
		to   engine.Status
	}{
		{engine.StatusPending, engine.EventApprove, engine.StatusApproved},
		{engine.StatusPending, engine.EventReject, engine.StatusRejected},
		{engine.StatusPending, engine.EventCancel, engine.StatusCancelled},
		{engine.StatusApproved, engine.EventCancel, engine.StatusCancelled},
		{engine.StatusApproved, engine.EventComplete, engine.StatusCompleted},
		{engine.StatusApproved, engine.EventExtend, engine.StatusApproved},
	}

	for _, tt := range legal {
		t.Run(string(tt.from)+"_"+string(tt.ev), func(t *testing.T) {
			to, ok := engine.Next(tt.from, tt.ev)

			assert.True(t, ok)
			assert.Equal(t, tt.to, to)
		})
	}

	statuses := []engine.Status{
		engine.StatusPending,
		engine.StatusApproved,
		engine.StatusRejected,
		engine.StatusCancelled,
		engine.StatusCompleted,
	}
	events := []engine.Event{
		engine.EventApprove,
		engine.EventReject,
		engine.EventCancel,
		engine.EventComplete,
		engine.EventExtend,
	}

	isLegal := func(from engine.Status, ev engine.Event) bool {
		for _, tt := range legal {
			if tt.from == from && tt.ev == ev {
				return true
			}
		}

		return false
	}

	// everything outside the table is an invalid transition
	for _, from := range statuses {
		for _, ev := range events {
			if isLegal(from, ev) {
				continue
			}

			_, ok := engine.Next(from, ev)
			assert.False(t, ok, "expected %s + %s to be invalid", from, ev)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, engine.Terminal(engine.StatusPending))
	assert.False(t, engine.Terminal(engine.StatusApproved))
	assert.True(t, engine.Terminal(engine.StatusRejected))
	assert.True(t, engine.Terminal(engine.StatusCancelled))
	assert.True(t, engine.Terminal(engine.StatusCompleted))
}
