package models

import "time"

// DateLayout is the wire format of calendar dates such as last_completed.
const DateLayout = "2006-01-02"

// JobType categorises a job (Cleaning, Yard, ...).
type JobType struct {
	ID    int64  `json:"id" db:"id"`
	Label string `json:"label" db:"label"`
}

// Job is a recurring household task shared by its members. A job exists only
// while it has at least one member.
type Job struct {
	ID                int64      `json:"id" db:"id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	TypeID            int64      `json:"type_id" db:"type_id"`
	Frequency         int        `json:"frequency" db:"frequency"`
	CreatedByID       int64      `json:"created_by_id" db:"created_by_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	LastCompleted     time.Time  `json:"last_completed" db:"last_completed"`
	LastCompletedByID int64      `json:"last_completed_by_id" db:"last_completed_by_id"`
	NotifiedOn        *time.Time `json:"-" db:"notified_on"`
	Type              *JobType   `json:"type,omitempty"`
	LastCompletedBy   *User      `json:"last_completed_by,omitempty"`
	Members           []User     `json:"users,omitempty"`
}

// HasMember returns true if userID is currently attached to the job
func (j *Job) HasMember(userID int64) bool {
	for _, m := range j.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

const secondsPerDay = 24 * 60 * 60

// DaysLapsed returns the whole days between the last completion and today.
func (j *Job) DaysLapsed(today time.Time) int {
	return int((DateOf(today).Unix() - DateOf(j.LastCompleted).Unix()) / secondsPerDay)
}

// IsDue returns true once a full frequency interval has passed since the last completion
func (j *Job) IsDue(today time.Time) bool {
	return j.DaysLapsed(today) >= j.Frequency
}

// WasNotifiedOn reports whether the due digest already covered the job on day.
func (j *Job) WasNotifiedOn(day time.Time) bool {
	return j.NotifiedOn != nil && DateOf(*j.NotifiedOn).Equal(DateOf(day))
}

// DateOf returns midnight UTC of t's calendar date in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
