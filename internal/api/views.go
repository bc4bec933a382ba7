package api

import (
	"time"

	"github.com/Kerhoff/ChoreboT/internal/models"
)

type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func newUserView(u *models.User) *userView {
	if u == nil {
		return nil
	}
	return &userView{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

func newUserViews(users []*models.User) []*userView {
	views := make([]*userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	return views
}

type jobView struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Type            *models.JobType `json:"type"`
	Frequency       int             `json:"frequency"`
	LastCompleted   string          `json:"last_completed"`
	LastCompletedBy *userView       `json:"last_completed_by"`
	DaysLapsed      int             `json:"days_lapsed"`
	Users           []*userView     `json:"users"`
}

func newJobView(j *models.Job, today time.Time) *jobView {
	v := &jobView{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		Type:            j.Type,
		Frequency:       j.Frequency,
		LastCompleted:   j.LastCompleted.Format(models.DateLayout),
		LastCompletedBy: newUserView(j.LastCompletedBy),
		DaysLapsed:      j.DaysLapsed(today),
		Users:           make([]*userView, 0, len(j.Members)),
	}
	if v.Type == nil {
		v.Type = &models.JobType{ID: j.TypeID}
	}
	for i := range j.Members {
		v.Users = append(v.Users, newUserView(&j.Members[i]))
	}
	return v
}

func newJobViews(jobs []*models.Job, today time.Time) []*jobView {
	views := make([]*jobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, newJobView(j, today))
	}
	return views
}

type shortJobView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type inviteView struct {
	ID        int64         `json:"id"`
	Job       *shortJobView `json:"job"`
	Inviter   *userView     `json:"inviter"`
	Invitee   *userView     `json:"invitee"`
	CreatedAt time.Time     `json:"created_at"`
}

func newInviteView(inv *models.JobInvite) *inviteView {
	v := &inviteView{
		ID:        inv.ID,
		Job:       &shortJobView{ID: inv.JobID},
		Inviter:   newUserView(inv.Inviter),
		Invitee:   newUserView(inv.Invitee),
		CreatedAt: inv.CreatedAt,
	}
	if inv.Job != nil {
		v.Job.Title = inv.Job.Title
	}
	if v.Inviter == nil {
		v.Inviter = &userView{ID: inv.InviterID}
	}
	if v.Invitee == nil {
		v.Invitee = &userView{ID: inv.InviteeID}
	}
	return v
}

type pairView struct {
	ID         int64      `json:"id"`
	User1      *userView  `json:"user_1"`
	User2      *userView  `json:"user_2"`
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

func newPairView(p *models.UserPair) *pairView {
	v := &pairView{
		ID:         p.ID,
		User1:      newUserView(p.UserA),
		User2:      newUserView(p.UserB),
		Accepted:   p.Accepted,
		AcceptedAt: p.AcceptedAt,
	}
	if v.User1 == nil {
		v.User1 = &userView{ID: p.UserAID}
	}
	if v.User2 == nil {
		v.User2 = &userView{ID: p.UserBID}
	}
	return v
}
