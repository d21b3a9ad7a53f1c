package api

// User is the private view of an account, returned to its owner.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Group struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Bio           string    `json:"bio"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	OwnerID       string    `json:"owner_id"`
	IsActive      bool      `json:"is_active"`
	ActiveUntil   int64     `json:"active_until,omitempty"`
	CreatedAt     int64     `json:"created_at"`
	MemberCount   int       `json:"member_count"`
	Members       []Profile `json:"members,omitempty"`
	MemberAvatars []string  `json:"member_avatars,omitempty"`
	Photos        []string  `json:"photos,omitempty"`

	// Matches is only set on single-group responses.
	Matches []MatchSummary `json:"matches,omitempty"`
}

// Candidate is a group offered to a swiping group.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type GroupIdentity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// MatchSummary is one entry of the caller's match list. LastMessageSentAt is
// zero when no message was exchanged yet.
type MatchSummary struct {
	MatchID            int64         `json:"match_id"`
	MyGroup            GroupIdentity `json:"my_group"`
	OtherGroup         GroupIdentity `json:"other_group"`
	LastMessageContent string        `json:"last_message_content,omitempty"`
	LastMessageSentAt  int64         `json:"last_message_sent_at,omitempty"`
	CreatedAt          int64         `json:"created_at"`
}

type Message struct {
	ID       int64   `json:"id"`
	MatchID  int64   `json:"match_id"`
	SenderID string  `json:"sender_id"`
	Content  string  `json:"content"`
	ClientID string  `json:"client_id,omitempty"`
	SentAt   int64   `json:"sent_at"`
	Sender   Profile `json:"sender"`
}

// MessageEvent is a frame of the SubscribeMessages stream. The first frame
// only carries Subscribed=true; every later frame announces one inserted row.
type MessageEvent struct {
	Subscribed bool   `json:"subscribed,omitempty"`
	MatchID    int64  `json:"match_id,omitempty"`
	MessageID  int64  `json:"message_id,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
}

// AuthService

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type UpdateProfileResponse struct {
	User User `json:"user"`
}

type RegisterPushTokenRequest struct {
	Token string `json:"token"`
}

type RegisterPushTokenResponse struct{}

// GroupService

type CreateGroupRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID  string `json:"group_id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type UpdateGroupResponse struct {
	Group Group `json:"group"`
}

type ActivateGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ActivateGroupResponse struct {
	Group Group `json:"group"`
}

type DeactivateGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeactivateGroupResponse struct {
	Group Group `json:"group"`
}

type CreateInviteRequest struct {
	GroupID string `json:"group_id"`
}

type CreateInviteResponse struct {
	Code string `json:"code"`
}

type JoinGroupRequest struct {
	Code string `json:"code"`
}

type JoinGroupResponse struct {
	Group Group `json:"group"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"group_id"`
}

type LeaveGroupResponse struct{}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddGroupPhotoRequest struct {
	GroupID  string `json:"group_id"`
	PhotoURL string `json:"photo_url"`
}

type AddGroupPhotoResponse struct {
	Group Group `json:"group"`
}

type RemoveGroupPhotoRequest struct {
	GroupID  string `json:"group_id"`
	PhotoURL string `json:"photo_url"`
}

type RemoveGroupPhotoResponse struct {
	Group Group `json:"group"`
}

// SwipeService

type GetGroupsForSwipingRequest struct {
	SwipingGroupID string `json:"swiping_group_id"`
}

type GetGroupsForSwipingResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type CreateSwipeRequest struct {
	SwiperGroupID string `json:"swiper_group_id"`
	SwipedGroupID string `json:"swiped_group_id"`
	Liked         bool   `json:"liked"`
}

type CreateSwipeResponse struct{}

type QuerySwipeRequest struct {
	SwiperGroupID string `json:"swiper_group_id"`
	SwipedGroupID string `json:"swiped_group_id"`
	Liked         bool   `json:"liked"`
}

type QuerySwipeResponse struct {
	Exists bool `json:"exists"`
}

// MatchService

type CreateMatchRequest struct {
	Group1 string `json:"group_1"`
	Group2 string `json:"group_2"`
}

type CreateMatchResponse struct {
	MatchID int64 `json:"match_id"`
}

type FindMatchRequest struct {
	GroupA string `json:"group_a"`
	GroupB string `json:"group_b"`
}

type FindMatchResponse struct {
	MatchID int64 `json:"match_id"`
}

type GetMatchListDetailsRequest struct{}

type GetMatchListDetailsResponse struct {
	Matches []MatchSummary `json:"matches"`
}

type GetMatchDetailsRequest struct {
	MatchID int64 `json:"match_id"`
}

type GetMatchDetailsResponse struct {
	MatchID   int64         `json:"match_id"`
	Group1    GroupIdentity `json:"group_1"`
	Group2    GroupIdentity `json:"group_2"`
	CreatedAt int64         `json:"created_at"`
}

// ChatService

type ListMessagesRequest struct {
	MatchID int64 `json:"match_id"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type GetMessageRequest struct {
	MessageID int64 `json:"message_id"`
}

type GetMessageResponse struct {
	Message Message `json:"message"`
}

type SendMessageRequest struct {
	MatchID  int64  `json:"match_id"`
	Content  string `json:"content"`
	ClientID string `json:"client_id,omitempty"`
}

type SendMessageResponse struct {
	Message Message `json:"message"`
}

type SubscribeMessagesRequest struct {
	MatchID int64 `json:"match_id"`
}
