package deck

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("no like back", func(t *testing.T) {
		backend := newFakeBackend()
		backend.like("a", "b")

		out, err := NewReconciler(backend, nil).Reconcile(ctx, "a", "b")
		require.NoError(t, err)
		assert.False(t, out.Matched)
		assert.Zero(t, backend.createCalls)
	})

	t.Run("mutual like creates match", func(t *testing.T) {
		backend := newFakeBackend()
		backend.like("a", "b")
		backend.like("b", "a")

		out, err := NewReconciler(backend, nil).Reconcile(ctx, "a", "b")
		require.NoError(t, err)
		assert.True(t, out.Matched)
		assert.True(t, out.Created)
		assert.Equal(t, int64(1), out.MatchID)
	})

	t.Run("existing match is looked up", func(t *testing.T) {
		backend := newFakeBackend()
		backend.like("a", "b")
		backend.like("b", "a")
		backend.matches[unordered("b", "a")] = 42

		out, err := NewReconciler(backend, nil).Reconcile(ctx, "a", "b")
		require.NoError(t, err)
		assert.True(t, out.Matched)
		assert.False(t, out.Created)
		assert.Equal(t, int64(42), out.MatchID)
	})

	t.Run("create failure is reported as no match", func(t *testing.T) {
		backend := newFakeBackend()
		backend.like("a", "b")
		backend.like("b", "a")
		backend.createErr = errBackend

		out, err := NewReconciler(backend, nil).Reconcile(ctx, "a", "b")
		assert.ErrorIs(t, err, errBackend)
		assert.False(t, out.Matched)
	})

	t.Run("lookup failure after conflict", func(t *testing.T) {
		backend := newFakeBackend()
		backend.like("a", "b")
		backend.like("b", "a")
		backend.matches[unordered("a", "b")] = 7
		backend.findErr = errBackend

		out, err := NewReconciler(backend, nil).Reconcile(ctx, "a", "b")
		assert.ErrorIs(t, err, errBackend)
		assert.False(t, out.Matched)
	})

	t.Run("query failure", func(t *testing.T) {
		backend := newFakeBackend()
		backend.queryErr = errBackend

		_, err := NewReconciler(backend, nil).Reconcile(ctx, "a", "b")
		assert.ErrorIs(t, err, errBackend)
	})
}

func TestReconcileRaceConverges(t *testing.T) {
	backend := newFakeBackend()
	backend.like("a", "b")
	backend.like("b", "a")

	// Hold both creators until each has passed the reciprocity check.
	var ready sync.WaitGroup
	ready.Add(2)
	backend.beforeCreate = func() {
		ready.Done()
		ready.Wait()
	}

	r := NewReconciler(backend, nil)
	outcomes := make([]Outcome, 2)
	var wg sync.WaitGroup
	for i, pair := range [][2]string{{"a", "b"}, {"b", "a"}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Reconcile(context.Background(), pair[0], pair[1])
			assert.NoError(t, err)
			outcomes[i] = out
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, backend.matchCount())
	assert.True(t, outcomes[0].Matched)
	assert.True(t, outcomes[1].Matched)
	assert.Equal(t, outcomes[0].MatchID, outcomes[1].MatchID)
	assert.NotEqual(t, outcomes[0].Created, outcomes[1].Created)
}
