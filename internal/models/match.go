package models

// Swipe is a one-way decision from the swiper group toward the swiped group.
// Liked=false is a pass. Swipes are never mutated once written.
type Swipe struct {
	SwiperGroupID string
	SwipedGroupID string
	Liked         bool
	CreatedAt     int64
}

// Match records a mutual like between two groups. The pair is unordered:
// Match(A,B) and Match(B,A) are the same logical entity.
type Match struct {
	ID        int64
	Group1    string
	Group2    string
	CreatedAt int64
}

// Involves reports whether the group is one side of the match.
func (m *Match) Involves(groupID string) bool {
	return m.Group1 == groupID || m.Group2 == groupID
}

// Other returns the counterpart of groupID in the match.
func (m *Match) Other(groupID string) string {
	if m.Group1 == groupID {
		return m.Group2
	}
	return m.Group1
}

// GroupIdentity is the display identity of a group inside a match listing.
type GroupIdentity struct {
	ID       string
	Name     string
	PhotoURL string
}

// MatchSummary is one row of a user's match list.
type MatchSummary struct {
	MatchID    int64
	MyGroup    GroupIdentity
	OtherGroup GroupIdentity

	// LastMessageContent and LastMessageSentAt are empty/zero when the match
	// has no messages yet.
	LastMessageContent string
	LastMessageSentAt  int64

	CreatedAt int64
}

// HasMessages reports whether any message was exchanged on the match.
func (s *MatchSummary) HasMessages() bool {
	return s.LastMessageSentAt != 0
}

// MatchDetails carries both sides of a match.
type MatchDetails struct {
	Match  Match
	Group1 GroupIdentity
	Group2 GroupIdentity
}
