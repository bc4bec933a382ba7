package models

import "time"

// JobInvite proposes adding a confirmed friend to a job's members.
type JobInvite struct {
	ID        int64     `json:"id" db:"id"`
	JobID     int64     `json:"job_id" db:"job_id"`
	InviterID int64     `json:"inviter_id" db:"inviter_id"`
	InviteeID int64     `json:"invitee_id" db:"invitee_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Job       *Job      `json:"job,omitempty"`
	Inviter   *User     `json:"inviter,omitempty"`
	Invitee   *User     `json:"invitee,omitempty"`
}
