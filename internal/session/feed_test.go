package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sprint.report/internal/testutil"
)

func TestFeed_DeliversAcceptedAnalyses(t *testing.T) {
	f := newFixture(t, nil)
	s, err := f.manager.Create("feed")
	require.NoError(t, err)

	id, ch := s.Subscribe()
	require.NotEmpty(t, id)
	assert.Equal(t, 1, s.Subscribers())

	frames := testutil.SprintSequence(1000, 2)
	_, err = s.ProcessFrame(frames[0])
	require.NoError(t, err)
	_, err = s.ProcessFrame(frames[0])
	require.ErrorIs(t, err, ErrOutOfOrder)
	_, err = s.ProcessFrame(frames[1])
	require.NoError(t, err)

	first := <-ch
	second := <-ch
	assert.Equal(t, int64(1000), first.Metrics.Timestamp)
	assert.Equal(t, int64(1100), second.Metrics.Timestamp)
	assert.Empty(t, ch, "rejected frames are not published")

	s.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, s.Subscribers())
	s.Unsubscribe(id)
}

func TestFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	f := newFixture(t, nil)
	s, err := f.manager.Create("slow")
	require.NoError(t, err)

	_, ch := s.Subscribe()
	for _, fr := range testutil.SprintSequence(1000, feedBuffer+5) {
		_, err := s.ProcessFrame(fr)
		require.NoError(t, err)
	}
	assert.Len(t, ch, feedBuffer)

	accepted, _ := s.Stats()
	assert.Equal(t, feedBuffer+5, accepted)
}

func TestFeed_ClosedOnRemove(t *testing.T) {
	f := newFixture(t, nil)
	s, err := f.manager.Create("removed")
	require.NoError(t, err)

	_, ch := s.Subscribe()
	require.True(t, f.manager.Remove(s.ID))

	_, open := <-ch
	assert.False(t, open)

	id, late := s.Subscribe()
	assert.Empty(t, id)
	_, open = <-late
	assert.False(t, open)
}
