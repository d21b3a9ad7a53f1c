// Package matchlist assembles the signed-in user's match list. It is pull
// based: callers reload it on demand.
package matchlist

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mmynk/groupswipe/pkg/api"
)

// Source returns the raw match summaries of the current user.
type Source interface {
	MatchListDetails(ctx context.Context) ([]api.MatchSummary, error)
}

type Entry struct {
	MatchID    int64
	MyGroup    api.GroupIdentity
	OtherGroup api.GroupIdentity
	// Preview is the last message, or a "you matched" line when the match
	// has no messages.
	Preview       string
	LastMessageAt time.Time
	HasMessages   bool
	MatchedAt     time.Time
}

// Load fetches and sorts the match list.
func Load(ctx context.Context, src Source) ([]Entry, error) {
	summaries, err := src.MatchListDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	entries := make([]Entry, 0, len(summaries))
	for _, s := range summaries {
		entries = append(entries, NewEntry(s))
	}
	Sort(entries)
	return entries, nil
}

func NewEntry(s api.MatchSummary) Entry {
	e := Entry{
		MatchID:    s.MatchID,
		MyGroup:    s.MyGroup,
		OtherGroup: s.OtherGroup,
		Preview:    Preview(s),
		MatchedAt:  time.UnixMilli(s.CreatedAt),
	}
	if s.LastMessageSentAt != 0 {
		e.HasMessages = true
		e.LastMessageAt = time.UnixMilli(s.LastMessageSentAt)
	}
	return e
}

// Preview returns the line shown under a match.
func Preview(s api.MatchSummary) string {
	if s.LastMessageSentAt == 0 {
		return fmt.Sprintf("You matched with %s!", s.OtherGroup.Name)
	}
	return s.LastMessageContent
}

// Sort orders entries by last message, newest first. Entries without
// messages go last and keep their relative order.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.HasMessages && !b.HasMessages:
			return -1
		case !a.HasMessages && b.HasMessages:
			return 1
		case !a.HasMessages:
			return 0
		}
		return cmp.Compare(b.LastMessageAt.UnixMilli(), a.LastMessageAt.UnixMilli())
	})
}

// FormatTimestamp renders t relative to now: the time of day for today,
// "Yesterday", the weekday within the current week (starting Sunday), and a
// short date before that.
func FormatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	startOfWeek := startOfToday.AddDate(0, 0, -int(now.Weekday()))

	switch {
	case !t.Before(startOfToday):
		return t.Format("15:04")
	case !t.Before(startOfYesterday):
		return "Yesterday"
	case !t.Before(startOfWeek):
		return t.Weekday().String()
	default:
		return t.Format("01/02/06")
	}
}
