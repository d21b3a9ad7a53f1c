package models

// Group is the swiping unit: a set of users sharing one profile.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Weekend Wanderers").
	Name string

	// Bio is a short free-text description shown on the swipe card.
	Bio string

	// PhotoURL is the group's cover photo, empty when none was uploaded.
	PhotoURL string

	// OwnerID is the user who created the group. Only the owner may edit or
	// delete it.
	OwnerID string

	// IsActive is set by activation and cleared by deactivation.
	IsActive bool

	// ActiveUntil is the Unix millisecond timestamp at which the current
	// activation window expires. A group past this instant is not
	// discoverable even if IsActive is still set.
	ActiveUntil int64

	// CreatedAt is the Unix millisecond timestamp when the group was created.
	CreatedAt int64
}

// ActiveAt reports whether the group is discoverable at the given instant.
func (g *Group) ActiveAt(nowMillis int64) bool {
	return g.IsActive && g.ActiveUntil > nowMillis
}

// GroupMember links a user to a group.
type GroupMember struct {
	GroupID  string
	UserID   string
	JoinedAt int64
}

// GroupPhoto is an additional photo attached to a group, ordered by Position.
type GroupPhoto struct {
	GroupID  string
	PhotoURL string
	Position int
}

// GroupDetails is a group together with its roster, photos and matches.
type GroupDetails struct {
	Group   Group
	Members []Profile
	Photos  []GroupPhoto

	// Matches has this group as MyGroup in every entry.
	Matches []MatchSummary
}

// GroupSummary is the list view of a group the current user belongs to.
type GroupSummary struct {
	Group         Group
	MemberCount   int
	MemberAvatars []string
}

// GroupInvite is a shareable code that lets a user join a group.
type GroupInvite struct {
	Code      string
	GroupID   string
	CreatedBy string
	CreatedAt int64
}

// Candidate is a group eligible to appear on a swiping group's deck.
type Candidate struct {
	ID       string
	Name     string
	Bio      string
	PhotoURL string
}
