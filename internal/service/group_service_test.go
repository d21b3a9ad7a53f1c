package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice")

	resp, err := alice.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name: "  Weekend Wanderers ",
		Bio:  "Hikes and brunch",
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Weekend Wanderers" {
		t.Errorf("name: expected 'Weekend Wanderers', got '%s'", group.Name)
	}
	if group.OwnerID != alice.id {
		t.Errorf("owner: expected %s, got %s", alice.id, group.OwnerID)
	}
	if group.MemberCount != 1 {
		t.Errorf("members: expected 1, got %d", group.MemberCount)
	}
	if group.IsActive {
		t.Error("new groups must start inactive")
	}

	t.Run("empty name", func(t *testing.T) {
		_, err := alice.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: " "}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		anonymous := api.NewGroupServiceClient(env.server.Client(), env.server.URL)
		_, err := anonymous.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: "x"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestGroupMembership(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	created, err := alice.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trail Blazers"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := created.Msg.Group.ID

	t.Run("non-member cannot read", func(t *testing.T) {
		_, err := bob.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("only owner creates invites", func(t *testing.T) {
		_, err := bob.groups.CreateInvite(ctx, connect.NewRequest(&api.CreateInviteRequest{GroupID: groupID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	invite, err := alice.groups.CreateInvite(ctx, connect.NewRequest(&api.CreateInviteRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	t.Run("join with code", func(t *testing.T) {
		// Codes are accepted in any case.
		resp, err := bob.groups.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{Code: " " + strings.ToLower(invite.Msg.Code)}))
		if err != nil {
			t.Fatalf("JoinGroup failed: %v", err)
		}
		if resp.Msg.Group.MemberCount != 2 {
			t.Errorf("members: expected 2, got %d", resp.Msg.Group.MemberCount)
		}

		list, err := bob.groups.ListMyGroups(ctx, connect.NewRequest(&api.ListMyGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListMyGroups failed: %v", err)
		}
		if len(list.Msg.Groups) != 1 || list.Msg.Groups[0].ID != groupID {
			t.Errorf("expected bob to list the joined group, got %+v", list.Msg.Groups)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := bob.groups.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{Code: "NOPE-NOPE-00"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("member cannot update", func(t *testing.T) {
		_, err := bob.groups.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{GroupID: groupID, Name: "Mine"}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		_, err := alice.groups.LeaveGroup(ctx, connect.NewRequest(&api.LeaveGroupRequest{GroupID: groupID}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("member leaves", func(t *testing.T) {
		if _, err := bob.groups.LeaveGroup(ctx, connect.NewRequest(&api.LeaveGroupRequest{GroupID: groupID})); err != nil {
			t.Fatalf("LeaveGroup failed: %v", err)
		}
		_, err := bob.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}

func TestUpdateGroupAndPhotos(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	created, err := alice.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Game Night"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := created.Msg.Group.ID

	updated, err := alice.groups.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{
		GroupID:  groupID,
		Name:     "Game Night Pros",
		Bio:      "Board games every Friday",
		PhotoURL: "https://example.com/cover.jpg",
	}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if updated.Msg.Group.Name != "Game Night Pros" || updated.Msg.Group.PhotoURL != "https://example.com/cover.jpg" {
		t.Errorf("unexpected group after update: %+v", updated.Msg.Group)
	}

	for _, url := range []string{"https://example.com/1.jpg", "https://example.com/2.jpg"} {
		if _, err := alice.groups.AddGroupPhoto(ctx, connect.NewRequest(&api.AddGroupPhotoRequest{GroupID: groupID, PhotoURL: url})); err != nil {
			t.Fatalf("AddGroupPhoto failed: %v", err)
		}
	}
	removed, err := alice.groups.RemoveGroupPhoto(ctx, connect.NewRequest(&api.RemoveGroupPhotoRequest{
		GroupID:  groupID,
		PhotoURL: "https://example.com/1.jpg",
	}))
	if err != nil {
		t.Fatalf("RemoveGroupPhoto failed: %v", err)
	}
	if photos := removed.Msg.Group.Photos; len(photos) != 1 || photos[0] != "https://example.com/2.jpg" {
		t.Errorf("expected only the second photo, got %v", photos)
	}
}

func TestActivationControlsDiscovery(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	groupA := alice.activeGroup(t, "Alpha")
	groupB := bob.activeGroup(t, "Bravo")

	deck := func() []api.Candidate {
		t.Helper()
		resp, err := alice.swipes.GetGroupsForSwiping(ctx, connect.NewRequest(&api.GetGroupsForSwipingRequest{SwipingGroupID: groupA}))
		if err != nil {
			t.Fatalf("GetGroupsForSwiping failed: %v", err)
		}
		return resp.Msg.Candidates
	}

	if got := deck(); len(got) != 1 || got[0].ID != groupB {
		t.Fatalf("expected Bravo on the deck, got %+v", got)
	}

	resp, err := bob.groups.DeactivateGroup(ctx, connect.NewRequest(&api.DeactivateGroupRequest{GroupID: groupB}))
	if err != nil {
		t.Fatalf("DeactivateGroup failed: %v", err)
	}
	if resp.Msg.Group.IsActive {
		t.Error("expected group to be inactive")
	}
	if got := deck(); len(got) != 0 {
		t.Errorf("expected empty deck after deactivation, got %+v", got)
	}
}

func TestDeleteGroupCascadesMatches(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, groupA, _, matchID := matchedPair(t, env)

	t.Run("only owner deletes", func(t *testing.T) {
		_, err := bob.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: groupA}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	if _, err := alice.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: groupA})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := bob.matches.GetMatchDetails(ctx, connect.NewRequest(&api.GetMatchDetailsRequest{MatchID: matchID}))
	assertCode(t, err, connect.CodeNotFound)

	list, err := bob.matches.GetMatchListDetails(ctx, connect.NewRequest(&api.GetMatchListDetailsRequest{}))
	if err != nil {
		t.Fatalf("GetMatchListDetails failed: %v", err)
	}
	if len(list.Msg.Matches) != 0 {
		t.Errorf("expected no matches, got %d", len(list.Msg.Matches))
	}
}

func TestGetGroupListsMatches(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, groupA, groupB, matchID := matchedPair(t, env)

	lonely := alice.activeGroup(t, "Charlie")
	resp, err := alice.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: lonely}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(resp.Msg.Group.Matches) != 0 {
		t.Errorf("expected no matches for %s, got %+v", lonely, resp.Msg.Group.Matches)
	}

	tests := []struct {
		name      string
		user      *testUser
		groupID   string
		wantMine  string
		wantOther string
	}{
		{name: "first group", user: alice, groupID: groupA, wantMine: "Alpha", wantOther: "Bravo"},
		{name: "second group", user: bob, groupID: groupB, wantMine: "Bravo", wantOther: "Alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.user.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: tt.groupID}))
			if err != nil {
				t.Fatalf("GetGroup failed: %v", err)
			}
			matches := resp.Msg.Group.Matches
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d", len(matches))
			}
			if matches[0].MatchID != matchID {
				t.Errorf("expected match %d, got %d", matchID, matches[0].MatchID)
			}
			if matches[0].MyGroup.Name != tt.wantMine {
				t.Errorf("expected my group %q, got %q", tt.wantMine, matches[0].MyGroup.Name)
			}
			if matches[0].OtherGroup.Name != tt.wantOther {
				t.Errorf("expected other group %q, got %q", tt.wantOther, matches[0].OtherGroup.Name)
			}
		})
	}
}
