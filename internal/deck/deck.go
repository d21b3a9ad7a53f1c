package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrExhausted = errors.New("no more groups")

// Swiper records swipe decisions.
type Swiper interface {
	CreateSwipe(ctx context.Context, swiperGroupID, swipedGroupID string, liked bool) error
}

// Backend is everything a Deck talks to.
type Backend interface {
	Feed
	Swiper
	MatchBackend
}

// SwipeResult describes what a swipe did.
type SwipeResult struct {
	Card     Card
	Liked    bool
	Advanced bool
	Outcome  Outcome
	// MatchErr is set when the swipe was recorded but reconciling it failed.
	// The deck still advances.
	MatchErr error
}

// Deck is the ordered list of cards for one swiping group, consumed front to
// back through an index. Cards are never removed.
type Deck struct {
	swipingGroupID string
	backend        Backend
	reconciler     *Reconciler

	mu    sync.Mutex
	cards []Card
	index int
}

func New(swipingGroupID string, cards []Card, backend Backend, logger *slog.Logger) *Deck {
	return &Deck{
		swipingGroupID: swipingGroupID,
		backend:        backend,
		reconciler:     NewReconciler(backend, logger),
		cards:          cards,
	}
}

// Load fetches the feed and returns a deck over it. A feed error is returned
// together with a usable deck of filler cards.
func Load(ctx context.Context, backend Backend, swipingGroupID string, logger *slog.Logger) (*Deck, error) {
	cards, err := LoadFeed(ctx, backend, swipingGroupID)
	return New(swipingGroupID, cards, backend, logger), err
}

func (d *Deck) SwipingGroupID() string {
	return d.swipingGroupID
}

// Current returns the card at the index, or false once the deck is exhausted.
func (d *Deck) Current() (Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.index >= len(d.cards) {
		return Card{}, false
	}
	return d.cards[d.index], true
}

func (d *Deck) Index() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

func (d *Deck) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards) - d.index
}

// Swipe records a decision on the current card.
//
// Filler cards advance without touching the backend. If recording fails the
// error is returned and the index stays put so the card can be retried. A
// like that produces a match leaves the index in place, since the caller moves
// on to the match's chat.
func (d *Deck) Swipe(ctx context.Context, liked bool) (SwipeResult, error) {
	d.mu.Lock()
	if d.index >= len(d.cards) {
		d.mu.Unlock()
		return SwipeResult{}, ErrExhausted
	}
	at := d.index
	card := d.cards[at]
	d.mu.Unlock()

	result := SwipeResult{Card: card, Liked: liked}
	if card.Filler {
		result.Advanced = d.advance(at)
		return result, nil
	}

	if err := d.backend.CreateSwipe(ctx, d.swipingGroupID, card.GroupID, liked); err != nil {
		return result, fmt.Errorf("could not record your swipe: %w", err)
	}

	if liked {
		result.Outcome, result.MatchErr = d.reconciler.Reconcile(ctx, d.swipingGroupID, card.GroupID)
		if result.Outcome.Matched {
			return result, nil
		}
	}

	result.Advanced = d.advance(at)
	return result, nil
}

// advance moves past the card at index from. A concurrent swipe that already
// moved past it wins.
func (d *Deck) advance(from int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.index != from {
		return false
	}
	d.index++
	return true
}
