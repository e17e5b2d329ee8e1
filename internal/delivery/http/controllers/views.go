package controllers

import (
	"time"

	"gatherly/internal/domain"
)

// Response views. Every entity leaves the API through one of these so storage-only
// fields such as the password hash can never be serialized.

// StatusView is the body of operations that return no entity.
type StatusView struct {
	Status string `json:"status"`
}

type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthView is returned by register, login and token refresh.
type AuthView struct {
	User UserView `json:"user"`
}

type MemberView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// EventView renders Date in domain.EventDateLayout so it round-trips through the create
// and update requests.
type EventView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type RSVPView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	EventID   int64     `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// EventDetailView is an event with its RSVPs.
type EventDetailView struct {
	EventView
	RSVPs []RSVPView `json:"rsvps"`
}

type GroupView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupDetailView is a group with its members.
type GroupDetailView struct {
	GroupView
	Members []MemberView `json:"members"`
}

type InvitationView struct {
	ID              int64     `json:"id"`
	GroupID         int64     `json:"group_id"`
	GroupName       string    `json:"group_name"`
	UserID          int64     `json:"user_id"`
	InviterUsername string    `json:"inviter_username"`
	InvitedUserID   int64     `json:"invited_user_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type CommentView struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	EventID   int64     `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileEventView is an event the user responded to, with their status.
type ProfileEventView struct {
	EventView
	RSVPStatus string `json:"rsvp_status"`
}

type ProfileView struct {
	UserView
	Groups []GroupView        `json:"groups"`
	Events []ProfileEventView `json:"events"`
}

// mapViews converts in with f. The result is never nil so empty lists encode as [].
func mapViews[T, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func newUserView(u *domain.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func newMemberView(m *domain.UserSummary) MemberView {
	return MemberView{ID: m.ID, Username: m.Username}
}

func newEventView(e *domain.Event) EventView {
	return EventView{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date.Format(domain.EventDateLayout),
		Location:    e.Location,
		Description: e.Description,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt,
	}
}

func newRSVPView(r *domain.RSVP) RSVPView {
	return RSVPView{
		ID:        r.ID,
		UserID:    r.UserID,
		Username:  r.Username,
		EventID:   r.EventID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func newGroupView(g *domain.Group) GroupView {
	return GroupView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		UserID:      g.UserID,
		CreatedAt:   g.CreatedAt,
	}
}

func newInvitationView(i *domain.GroupInvitation) InvitationView {
	return InvitationView{
		ID:              i.ID,
		GroupID:         i.GroupID,
		GroupName:       i.GroupName,
		UserID:          i.UserID,
		InviterUsername: i.InviterUsername,
		InvitedUserID:   i.InvitedUserID,
		Status:          i.Status,
		CreatedAt:       i.CreatedAt,
	}
}

func newCommentView(c *domain.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		UserID:    c.UserID,
		Username:  c.Username,
		EventID:   c.EventID,
		CreatedAt: c.CreatedAt,
	}
}

func newProfileView(p *domain.Profile) ProfileView {
	return ProfileView{
		UserView: newUserView(p.User),
		Groups:   mapViews(p.Groups, newGroupView),
		Events: mapViews(p.Events, func(pe *domain.ProfileEvent) ProfileEventView {
			return ProfileEventView{EventView: newEventView(pe.Event), RSVPStatus: pe.RSVPStatus}
		}),
	}
}
