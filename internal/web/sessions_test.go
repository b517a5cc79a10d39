package web

import (
	"testing"
	"time"

	"github.com/darc-project/darc/internal/form"
	"github.com/stretchr/testify/assert"
)

func newClockSessions(start time.Time) (*sessions, *time.Time) {
	s := newSessions()
	clock := start
	s.now = func() time.Time { return clock }
	return s, &clock
}

func setCode(code string) func(form.State) form.State {
	return func(st form.State) form.State {
		st.Code = code
		return st
	}
}

func TestSessions_IdleFormExpires(t *testing.T) {
	tests := []struct {
		name string
		idle time.Duration
		want string
	}{
		{name: "recent", idle: sessionIdleTTL - time.Second, want: "a = 1"},
		{name: "idle too long", idle: sessionIdleTTL + time.Second, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock := newClockSessions(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
			s.update("one", setCode("a = 1"))

			*clock = clock.Add(tt.idle)
			assert.Equal(t, tt.want, s.get("one").Code)
		})
	}
}

func TestSessions_SweepDropsIdleEntries(t *testing.T) {
	s, clock := newClockSessions(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	for _, id := range []string{"one", "two", "three"} {
		s.update(id, setCode(id))
	}
	assert.Equal(t, 3, s.count())

	*clock = clock.Add(sessionIdleTTL + time.Minute)
	s.update("four", setCode("four"))

	assert.Equal(t, 1, s.count())
	assert.Equal(t, "four", s.get("four").Code)
}

func TestSessions_UpdateKeepsFormAlive(t *testing.T) {
	s, clock := newClockSessions(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.update("one", setCode("a = 1"))

	for i := 0; i < 3; i++ {
		*clock = clock.Add(sessionIdleTTL / 2)
		s.update("one", func(st form.State) form.State { return st })
	}

	assert.Equal(t, "a = 1", s.get("one").Code)
}
