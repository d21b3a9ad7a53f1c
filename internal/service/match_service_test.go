package service

import (
	"context"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/pkg/api"
)

func TestSwipeValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupA := alice.activeGroup(t, "Alpha")
	groupB := bob.activeGroup(t, "Bravo")

	t.Run("self swipe", func(t *testing.T) {
		_, err := alice.swipes.CreateSwipe(ctx, connect.NewRequest(&api.CreateSwipeRequest{
			SwiperGroupID: groupA, SwipedGroupID: groupA, Liked: true,
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("swiping for someone else's group", func(t *testing.T) {
		_, err := alice.swipes.CreateSwipe(ctx, connect.NewRequest(&api.CreateSwipeRequest{
			SwiperGroupID: groupB, SwipedGroupID: groupA, Liked: true,
		}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := alice.swipes.CreateSwipe(ctx, connect.NewRequest(&api.CreateSwipeRequest{
			SwiperGroupID: groupA, SwipedGroupID: "missing", Liked: true,
		}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("swiped groups leave the deck", func(t *testing.T) {
		_, err := alice.swipes.CreateSwipe(ctx, connect.NewRequest(&api.CreateSwipeRequest{
			SwiperGroupID: groupA, SwipedGroupID: groupB, Liked: false,
		}))
		if err != nil {
			t.Fatalf("CreateSwipe failed: %v", err)
		}
		resp, err := alice.swipes.GetGroupsForSwiping(ctx, connect.NewRequest(&api.GetGroupsForSwipingRequest{SwipingGroupID: groupA}))
		if err != nil {
			t.Fatalf("GetGroupsForSwiping failed: %v", err)
		}
		if len(resp.Msg.Candidates) != 0 {
			t.Errorf("expected empty deck, got %+v", resp.Msg.Candidates)
		}
	})
}

func TestMatchRequiresMutualLikes(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupA := alice.activeGroup(t, "Alpha")
	groupB := bob.activeGroup(t, "Bravo")

	alice.like(t, groupA, groupB)

	// Bob's side checks reciprocity after liking: nothing yet from Bravo.
	query, err := alice.swipes.QuerySwipe(ctx, connect.NewRequest(&api.QuerySwipeRequest{
		SwiperGroupID: groupB, SwipedGroupID: groupA, Liked: true,
	}))
	if err != nil {
		t.Fatalf("QuerySwipe failed: %v", err)
	}
	if query.Msg.Exists {
		t.Fatal("expected no reciprocal like yet")
	}

	_, err = alice.matches.CreateMatch(ctx, connect.NewRequest(&api.CreateMatchRequest{Group1: groupA, Group2: groupB}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	bob.like(t, groupB, groupA)
	query, err = bob.swipes.QuerySwipe(ctx, connect.NewRequest(&api.QuerySwipeRequest{
		SwiperGroupID: groupA, SwipedGroupID: groupB, Liked: true,
	}))
	if err != nil {
		t.Fatalf("QuerySwipe failed: %v", err)
	}
	if !query.Msg.Exists {
		t.Fatal("expected reciprocal like")
	}

	created, err := bob.matches.CreateMatch(ctx, connect.NewRequest(&api.CreateMatchRequest{Group1: groupB, Group2: groupA}))
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}

	t.Run("second create collides", func(t *testing.T) {
		_, err := alice.matches.CreateMatch(ctx, connect.NewRequest(&api.CreateMatchRequest{Group1: groupA, Group2: groupB}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("find by either ordering", func(t *testing.T) {
		for _, pair := range [][2]string{{groupA, groupB}, {groupB, groupA}} {
			found, err := alice.matches.FindMatch(ctx, connect.NewRequest(&api.FindMatchRequest{GroupA: pair[0], GroupB: pair[1]}))
			if err != nil {
				t.Fatalf("FindMatch failed: %v", err)
			}
			if found.Msg.MatchID != created.Msg.MatchID {
				t.Errorf("expected match %d, got %d", created.Msg.MatchID, found.Msg.MatchID)
			}
		}
	})

	t.Run("outsiders cannot look", func(t *testing.T) {
		carol := env.register(t, "carol")
		_, err := carol.matches.GetMatchDetails(ctx, connect.NewRequest(&api.GetMatchDetailsRequest{MatchID: created.Msg.MatchID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("details", func(t *testing.T) {
		details, err := alice.matches.GetMatchDetails(ctx, connect.NewRequest(&api.GetMatchDetailsRequest{MatchID: created.Msg.MatchID}))
		if err != nil {
			t.Fatalf("GetMatchDetails failed: %v", err)
		}
		names := map[string]bool{details.Msg.Group1.Name: true, details.Msg.Group2.Name: true}
		if !names["Alpha"] || !names["Bravo"] {
			t.Errorf("unexpected groups: %+v / %+v", details.Msg.Group1, details.Msg.Group2)
		}
	})
}

// Both sides discover the mutual like at the same time; exactly one
// CreateMatch wins and both converge on the same match id.
func TestConcurrentReconcileConverges(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupA := alice.activeGroup(t, "Alpha")
	groupB := bob.activeGroup(t, "Bravo")
	alice.like(t, groupA, groupB)
	bob.like(t, groupB, groupA)

	reconcile := func(u *testUser, mine, other string) (int64, error) {
		created, err := u.matches.CreateMatch(ctx, connect.NewRequest(&api.CreateMatchRequest{Group1: mine, Group2: other}))
		if err == nil {
			return created.Msg.MatchID, nil
		}
		if connect.CodeOf(err) != connect.CodeAlreadyExists {
			return 0, err
		}
		found, err := u.matches.FindMatch(ctx, connect.NewRequest(&api.FindMatchRequest{GroupA: mine, GroupB: other}))
		if err != nil {
			return 0, err
		}
		return found.Msg.MatchID, nil
	}

	var (
		wg   sync.WaitGroup
		ids  [2]int64
		errs [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ids[0], errs[0] = reconcile(alice, groupA, groupB)
	}()
	go func() {
		defer wg.Done()
		ids[1], errs[1] = reconcile(bob, groupB, groupA)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("reconcile %d failed: %v", i, err)
		}
	}
	if ids[0] == 0 || ids[0] != ids[1] {
		t.Fatalf("expected both sides on one match, got %d and %d", ids[0], ids[1])
	}

	list, err := alice.matches.GetMatchListDetails(ctx, connect.NewRequest(&api.GetMatchListDetailsRequest{}))
	if err != nil {
		t.Fatalf("GetMatchListDetails failed: %v", err)
	}
	if len(list.Msg.Matches) != 1 {
		t.Errorf("expected exactly one match, got %d", len(list.Msg.Matches))
	}
}

func TestMatchListPreview(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, groupA, groupB, matchID := matchedPair(t, env)

	list, err := alice.matches.GetMatchListDetails(ctx, connect.NewRequest(&api.GetMatchListDetailsRequest{}))
	if err != nil {
		t.Fatalf("GetMatchListDetails failed: %v", err)
	}
	if len(list.Msg.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(list.Msg.Matches))
	}
	entry := list.Msg.Matches[0]
	if entry.MyGroup.ID != groupA || entry.OtherGroup.ID != groupB {
		t.Errorf("sides: expected mine=%s other=%s, got %+v", groupA, groupB, entry)
	}
	if entry.LastMessageSentAt != 0 {
		t.Errorf("expected no last message, got %+v", entry)
	}

	if _, err := bob.chat.SendMessage(ctx, connect.NewRequest(&api.SendMessageRequest{MatchID: matchID, Content: "hey there"})); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	list, err = bob.matches.GetMatchListDetails(ctx, connect.NewRequest(&api.GetMatchListDetailsRequest{}))
	if err != nil {
		t.Fatalf("GetMatchListDetails failed: %v", err)
	}
	entry = list.Msg.Matches[0]
	if entry.MyGroup.ID != groupB {
		t.Errorf("bob's side: expected %s, got %s", groupB, entry.MyGroup.ID)
	}
	if entry.LastMessageContent != "hey there" || entry.LastMessageSentAt == 0 {
		t.Errorf("unexpected preview: %+v", entry)
	}
}
