package models

// Message is a chat line posted in a match. Messages are append-only.
type Message struct {
	// ID is assigned by the store. Zero for a message that has not been
	// confirmed yet.
	ID int64

	MatchID  int64
	SenderID string
	Content  string

	// ClientID is the correlation ID generated by the sending client. It is
	// echoed back on the stored row so the sender can reconcile its local
	// optimistic copy. Empty for messages sent without one.
	ClientID string

	// SentAt is the Unix millisecond timestamp of the message.
	SentAt int64

	// Sender is the sender's public profile.
	Sender Profile
}
