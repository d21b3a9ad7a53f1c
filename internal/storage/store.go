// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupswipe/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUniqueViolation is returned when an insert collides with a unique
	// constraint, e.g. a second match for the same unordered pair of groups.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrNotMutual is returned by CreateMatch when the two groups have not
	// both liked each other.
	ErrNotMutual = errors.New("groups have not liked each other")
)

// UserStore persists accounts, profiles and push tokens.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return ErrNotFound for unknown users.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	UpdateProfile(ctx context.Context, userID, username, avatarURL string) error

	// SavePushToken registers a device token; saving the same token twice is a no-op.
	SavePushToken(ctx context.Context, userID, token string) error

	// ListPushTokens returns every token registered by any of the given users.
	ListPushTokens(ctx context.Context, userIDs []string) ([]models.PushToken, error)
}

// GroupStore persists groups, memberships, photos and invites.
type GroupStore interface {
	// CreateGroup persists a new group and makes its owner the first member.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupDetails(ctx context.Context, groupID string) (*models.GroupDetails, error)

	// ListGroupsForUser returns the groups the user is a member of, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error)

	// UpdateGroup overwrites name, bio and photo URL.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// SetGroupActive sets the activation flag and the window expiry.
	SetGroupActive(ctx context.Context, groupID string, active bool, activeUntil int64) error

	// DeleteGroup removes the group together with everything hanging off it
	// (memberships, photos, invites, swipes, matches and their messages).
	DeleteGroup(ctx context.Context, groupID string) error

	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error

	// ListMemberIDs returns the distinct users belonging to any of the given
	// groups, except excludeUserID.
	ListMemberIDs(ctx context.Context, groupIDs []string, excludeUserID string) ([]string, error)

	AddGroupPhoto(ctx context.Context, photo *models.GroupPhoto) error
	RemoveGroupPhoto(ctx context.Context, groupID, photoURL string) error

	// CreateInvite returns ErrUniqueViolation when the code is already taken.
	CreateInvite(ctx context.Context, invite *models.GroupInvite) error
	GetInvite(ctx context.Context, code string) (*models.GroupInvite, error)
}

// SwipeStore persists swipe decisions and computes swipe decks.
type SwipeStore interface {
	// ListCandidates returns the groups the swiping group may swipe on at
	// nowMillis: active, unexpired, not itself, and not already swiped.
	ListCandidates(ctx context.Context, swipingGroupID string, nowMillis int64) ([]models.Candidate, error)

	// CreateSwipe appends a swipe. Recording the same ordered pair twice
	// keeps the first decision.
	CreateSwipe(ctx context.Context, swipe *models.Swipe) error

	// HasSwiped reports whether swiper recorded a decision equal to liked
	// toward swiped.
	HasSwiped(ctx context.Context, swiperGroupID, swipedGroupID string, liked bool) (bool, error)
}

// MatchStore persists matches.
type MatchStore interface {
	// CreateMatch inserts a match for an unordered pair of groups. It returns
	// ErrUniqueViolation when the pair already has a match and ErrNotMutual
	// when the likes are not reciprocal. match.ID and match.CreatedAt are
	// populated by the store.
	CreateMatch(ctx context.Context, match *models.Match) error

	// FindMatch looks up the match for the pair in either ordering.
	FindMatch(ctx context.Context, groupA, groupB string) (*models.Match, error)

	GetMatch(ctx context.Context, matchID int64) (*models.Match, error)
	GetMatchDetails(ctx context.Context, matchID int64) (*models.MatchDetails, error)

	// ListMatchSummaries returns every match of every group the user belongs
	// to, with the last message preview.
	ListMatchSummaries(ctx context.Context, userID string) ([]models.MatchSummary, error)

	// ListGroupMatches returns the matches of a single group, reported with
	// that group as MyGroup.
	ListGroupMatches(ctx context.Context, groupID string) ([]models.MatchSummary, error)
}

// MessageStore persists chat messages.
type MessageStore interface {
	// CreateMessage appends a message; msg.ID, msg.SentAt and msg.Sender are
	// populated by the store.
	CreateMessage(ctx context.Context, msg *models.Message) error

	GetMessage(ctx context.Context, messageID int64) (*models.Message, error)

	// ListMessages returns a page of the match's messages, newest first.
	ListMessages(ctx context.Context, matchID int64, offset, limit int) ([]models.Message, error)
}

// Store defines the full persistence surface used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	SwipeStore
	MatchStore
	MessageStore

	// Close releases any resources held by the store.
	Close() error
}
