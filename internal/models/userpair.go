package models

import "time"

// UserPair is a friendship between two users. UserA sent the invitation and
// UserB received it; only UserB may accept. The pair is unordered for
// uniqueness: {A,B} and {B,A} are the same relationship.
type UserPair struct {
	ID         int64      `json:"id" db:"id"`
	UserAID    int64      `json:"user_a_id" db:"user_a_id"`
	UserBID    int64      `json:"user_b_id" db:"user_b_id"`
	Accepted   bool       `json:"accepted" db:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at" db:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UserA      *User      `json:"user_a,omitempty"`
	UserB      *User      `json:"user_b,omitempty"`
}

// Involves returns true if userID is either side of the pair
func (p *UserPair) Involves(userID int64) bool {
	return p.UserAID == userID || p.UserBID == userID
}

// Joins returns true if the pair connects a and b in either direction.
func (p *UserPair) Joins(a, b int64) bool {
	return (p.UserAID == a && p.UserBID == b) || (p.UserAID == b && p.UserBID == a)
}

// IsInvitee returns true if userID is the side that received the invitation
func (p *UserPair) IsInvitee(userID int64) bool {
	return p.UserBID == userID
}

// OtherID returns the id of the side that is not userID.
func (p *UserPair) OtherID(userID int64) int64 {
	if p.UserAID == userID {
		return p.UserBID
	}
	return p.UserAID
}

// IsPending returns true while the invitation has not been accepted
func (p *UserPair) IsPending() bool {
	return !p.Accepted
}
