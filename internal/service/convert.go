package service

import (
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/pkg/api"
)

func toAPIUser(user *models.User) api.User {
	return api.User{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

func toAPIProfile(p models.Profile) api.Profile {
	return api.Profile{ID: p.ID, Username: p.Username, AvatarURL: p.AvatarURL}
}

func toAPIGroup(g *models.Group) api.Group {
	return api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Bio:         g.Bio,
		PhotoURL:    g.PhotoURL,
		OwnerID:     g.OwnerID,
		IsActive:    g.IsActive,
		ActiveUntil: g.ActiveUntil,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIGroupDetails(d *models.GroupDetails) api.Group {
	group := toAPIGroup(&d.Group)
	group.MemberCount = len(d.Members)
	for _, member := range d.Members {
		group.Members = append(group.Members, toAPIProfile(member))
		group.MemberAvatars = append(group.MemberAvatars, member.AvatarURL)
	}
	for _, photo := range d.Photos {
		group.Photos = append(group.Photos, photo.PhotoURL)
	}
	for i := range d.Matches {
		group.Matches = append(group.Matches, toAPIMatchSummary(&d.Matches[i]))
	}
	return group
}

func toAPIGroupSummary(s *models.GroupSummary) api.Group {
	group := toAPIGroup(&s.Group)
	group.MemberCount = s.MemberCount
	group.MemberAvatars = s.MemberAvatars
	return group
}

func toAPIIdentity(g models.GroupIdentity) api.GroupIdentity {
	return api.GroupIdentity{ID: g.ID, Name: g.Name, PhotoURL: g.PhotoURL}
}

func toAPIMatchSummary(s *models.MatchSummary) api.MatchSummary {
	return api.MatchSummary{
		MatchID:            s.MatchID,
		MyGroup:            toAPIIdentity(s.MyGroup),
		OtherGroup:         toAPIIdentity(s.OtherGroup),
		LastMessageContent: s.LastMessageContent,
		LastMessageSentAt:  s.LastMessageSentAt,
		CreatedAt:          s.CreatedAt,
	}
}

func toAPIMessage(m *models.Message) api.Message {
	return api.Message{
		ID:       m.ID,
		MatchID:  m.MatchID,
		SenderID: m.SenderID,
		Content:  m.Content,
		ClientID: m.ClientID,
		SentAt:   m.SentAt,
		Sender:   toAPIProfile(m.Sender),
	}
}
