// Package models defines the core domain models for GroupSwipe.
//
// # Actors
//
// Users belong to one or more Groups through GroupMember rows. A Group is the
// unit that swipes and gets swiped on; it is only discoverable while active
// (IsActive and ActiveUntil in the future).
//
// # Matching
//
//   - Swipe: a one-way like/pass from one group toward another, append-only
//   - Match: created exactly once per unordered pair of groups once both
//     groups have liked each other
//   - Message: chat line inside a Match, ordered by SentAt
//
// # Conventions
//
//  1. Timestamps are Unix milliseconds
//  2. User and group IDs are UUID strings; match and message IDs are integers
//     assigned by the store
//  3. Relationships are expressed with IDs, never pointers
package models
