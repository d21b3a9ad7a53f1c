package deck

import (
	"context"
	"errors"
	"sync"

	"github.com/mmynk/groupswipe/pkg/api"
)

type swipeKey struct{ swiper, swiped string }

type pairKey struct{ a, b string }

func unordered(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// fakeBackend is an in-memory backend with the same uniqueness rules as the
// server.
type fakeBackend struct {
	mu         sync.Mutex
	candidates []api.Candidate
	swipes     map[swipeKey]bool
	matches    map[pairKey]int64
	nextID     int64

	feedErr   error
	swipeErr  error
	queryErr  error
	createErr error
	findErr   error

	// beforeCreate runs before CreateMatch checks uniqueness.
	beforeCreate func()

	swipeCalls  int
	createCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		swipes:  map[swipeKey]bool{},
		matches: map[pairKey]int64{},
	}
}

func (f *fakeBackend) GroupsForSwiping(ctx context.Context, swipingGroupID string) ([]api.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return f.candidates, nil
}

func (f *fakeBackend) CreateSwipe(ctx context.Context, swiper, swiped string, liked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swipeCalls++
	if f.swipeErr != nil {
		return f.swipeErr
	}
	key := swipeKey{swiper, swiped}
	if _, ok := f.swipes[key]; !ok {
		f.swipes[key] = liked
	}
	return nil
}

func (f *fakeBackend) QuerySwipe(ctx context.Context, swiper, swiped string, liked bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return false, f.queryErr
	}
	got, ok := f.swipes[swipeKey{swiper, swiped}]
	return ok && got == liked, nil
}

func (f *fakeBackend) CreateMatch(ctx context.Context, group1, group2 string) (int64, error) {
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	key := unordered(group1, group2)
	if _, ok := f.matches[key]; ok {
		return 0, ErrMatchExists
	}
	f.nextID++
	f.matches[key] = f.nextID
	return f.nextID, nil
}

func (f *fakeBackend) FindMatch(ctx context.Context, groupA, groupB string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return 0, f.findErr
	}
	id, ok := f.matches[unordered(groupA, groupB)]
	if !ok {
		return 0, ErrNoMatch
	}
	return id, nil
}

func (f *fakeBackend) like(swiper, swiped string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swipes[swipeKey{swiper, swiped}] = true
}

func (f *fakeBackend) matchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matches)
}

var errBackend = errors.New("backend unavailable")
