package session

import (
	"errors"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sprint.report/internal/sprint"
)

func TestManager_CreateGetList(t *testing.T) {
	f := newFixture(t, nil)

	a, err := f.manager.Create("block starts")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	b, err := f.manager.Create("flying 30")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36, "uuid string form")
	assert.Equal(t, "block starts", f.store.sessions[a.ID])

	got, err := f.manager.Get(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = f.manager.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	list := f.manager.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID, "oldest first")

	assert.Equal(t, 2.0, promtest.ToFloat64(f.metrics.SessionsCreated))
	assert.True(t, f.manager.Remove(a.ID))
	assert.False(t, f.manager.Remove(a.ID))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.ActiveSessions))
}

type brokenStore struct{}

func (brokenStore) CreateSession(string, string, time.Time) error { return errors.New("read-only") }
func (brokenStore) RecordAnalysis(string, sprint.Analysis) error  { return nil }

func TestManager_CreateStoreError(t *testing.T) {
	m := NewManager(nil, WithStore(brokenStore{}))

	_, err := m.Create("x")
	assert.Error(t, err)
	assert.Empty(t, m.List())
}

func TestManager_NoStore(t *testing.T) {
	m := NewManager(nil)

	s, err := m.Create("")
	require.NoError(t, err)
	_, err = s.ProcessFrame(sprintFrameForTest())
	assert.NoError(t, err)
}
