package deck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupswipe/pkg/api"
)

func loadDeck(t *testing.T, backend *fakeBackend, swiping string) *Deck {
	t.Helper()
	d, err := Load(context.Background(), backend, swiping, nil)
	require.NoError(t, err)
	return d
}

func TestSwipePass(t *testing.T) {
	backend := newFakeBackend()
	backend.candidates = []api.Candidate{{ID: "b", Name: "B"}}
	d := loadDeck(t, backend, "a")

	res, err := d.Swipe(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, res.Advanced)
	assert.Equal(t, "b", res.Card.GroupID)
	assert.Equal(t, 1, d.Index())

	liked, ok := backend.swipes[swipeKey{"a", "b"}]
	assert.True(t, ok)
	assert.False(t, liked)
}

func TestSwipeFailureKeepsIndex(t *testing.T) {
	backend := newFakeBackend()
	backend.candidates = []api.Candidate{{ID: "b", Name: "B"}}
	d := loadDeck(t, backend, "a")
	backend.swipeErr = errBackend

	_, err := d.Swipe(context.Background(), true)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 0, d.Index())

	backend.swipeErr = nil
	res, err := d.Swipe(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, res.Advanced)
	assert.Equal(t, 1, d.Index())
}

func TestSwipeFillerSkipsBackend(t *testing.T) {
	backend := newFakeBackend()
	d := loadDeck(t, backend, "a")

	for d.Remaining() > 0 {
		res, err := d.Swipe(context.Background(), true)
		require.NoError(t, err)
		assert.True(t, res.Card.Filler)
		assert.True(t, res.Advanced)
	}

	assert.Zero(t, backend.swipeCalls)
	assert.Empty(t, backend.swipes)

	_, ok := d.Current()
	assert.False(t, ok)
	_, err := d.Swipe(context.Background(), true)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestSwipeLikeMatches(t *testing.T) {
	backend := newFakeBackend()
	backend.candidates = []api.Candidate{{ID: "b", Name: "B"}}
	backend.like("b", "a")
	d := loadDeck(t, backend, "a")

	res, err := d.Swipe(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, res.Outcome.Matched)
	assert.True(t, res.Outcome.Created)
	assert.False(t, res.Advanced)
	assert.Equal(t, 0, d.Index())
}

func TestSwipeLikeWithoutMatchAdvances(t *testing.T) {
	backend := newFakeBackend()
	backend.candidates = []api.Candidate{{ID: "b", Name: "B"}}
	d := loadDeck(t, backend, "a")

	res, err := d.Swipe(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, res.Outcome.Matched)
	assert.True(t, res.Advanced)
}

func TestSwipeMatchErrorAdvances(t *testing.T) {
	backend := newFakeBackend()
	backend.candidates = []api.Candidate{{ID: "b", Name: "B"}}
	backend.like("b", "a")
	backend.createErr = errBackend
	d := loadDeck(t, backend, "a")

	res, err := d.Swipe(context.Background(), true)
	require.NoError(t, err)
	assert.ErrorIs(t, res.MatchErr, errBackend)
	assert.False(t, res.Outcome.Matched)
	assert.True(t, res.Advanced)
}

func TestLoadWithFeedError(t *testing.T) {
	backend := newFakeBackend()
	backend.feedErr = errBackend

	d, err := Load(context.Background(), backend, "a", nil)
	assert.ErrorIs(t, err, errBackend)
	require.NotNil(t, d)
	assert.Equal(t, 5, d.Remaining())
}
