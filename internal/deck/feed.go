// Package deck implements the swiping side of the client: loading candidate
// cards, recording swipes and reconciling mutual likes into matches.
package deck

import (
	"context"
	"fmt"

	"github.com/mmynk/groupswipe/pkg/api"
)

// Card is one entry of the swipe deck. Filler cards are synthetic and never
// persisted.
type Card struct {
	GroupID string
	Name    string
	Bio     string
	Photos  []string
	Filler  bool
}

// Feed lists the groups a swiping group may still swipe on. Implementations
// exclude the swiping group, groups it already swiped on, and inactive or
// expired groups.
type Feed interface {
	GroupsForSwiping(ctx context.Context, swipingGroupID string) ([]api.Candidate, error)
}

var placeholderPhotos = []string{
	"placeholders/P1.png",
	"placeholders/P2.png",
	"placeholders/P3.png",
	"placeholders/P4.png",
	"placeholders/P5.png",
}

var fillerGroups = []struct {
	name, bio string
}{
	{"Weekend Wanderers", "Exploring the city, one brunch at a time."},
	{"The Foodie Crew", "In search of the best eats and hidden gems."},
	{"Trail Blazers", "Hiking, camping, and everything outdoors."},
	{"Game Night Pros", "Board games, video games, you name it."},
	{"Concert Goers", "Live music enthusiasts hitting all the shows."},
}

// FillerCards returns the fixed list of placeholder cards appended to every
// feed. Every other card shows the placeholder photos in reverse order.
func FillerCards() []Card {
	cards := make([]Card, 0, len(fillerGroups))
	for i, g := range fillerGroups {
		photos := make([]string, len(placeholderPhotos))
		copy(photos, placeholderPhotos)
		if i%2 == 1 {
			for l, r := 0, len(photos)-1; l < r; l, r = l+1, r-1 {
				photos[l], photos[r] = photos[r], photos[l]
			}
		}
		cards = append(cards, Card{
			GroupID: fmt.Sprintf("filler-%d", i+1),
			Name:    g.name,
			Bio:     g.bio,
			Photos:  photos,
			Filler:  true,
		})
	}
	return cards
}

// LoadFeed builds the deck for a swiping group: the real candidates followed
// by the filler cards. When the backend fails the feed still holds the filler
// cards and the error is returned alongside for display.
func LoadFeed(ctx context.Context, feed Feed, swipingGroupID string) ([]Card, error) {
	candidates, err := feed.GroupsForSwiping(ctx, swipingGroupID)
	if err != nil {
		return FillerCards(), fmt.Errorf("failed to fetch active groups: %w", err)
	}

	cards := make([]Card, 0, len(candidates)+len(fillerGroups))
	for _, c := range candidates {
		card := Card{GroupID: c.ID, Name: c.Name, Bio: c.Bio, Photos: []string{}}
		if c.PhotoURL != "" {
			card.Photos = []string{c.PhotoURL}
		}
		cards = append(cards, card)
	}
	return append(cards, FillerCards()...), nil
}
