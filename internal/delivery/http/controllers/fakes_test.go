package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// testEnvelope mirrors helpers.APIResponse with raw data for typed decoding.
type testEnvelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type testCall struct {
	method  string
	target  string
	body    string
	userID  int64
	path    map[string]string
	cookies []*http.Cookie
}

func serve(t *testing.T, handler http.HandlerFunc, c testCall) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(c.method, "http://test"+c.target, strings.NewReader(c.body))
	for k, v := range c.path {
		req.SetPathValue(k, v)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.userID != 0 {
		req = req.WithContext(middleware.SetUserID(req.Context(), c.userID))
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// decodeEnvelope decodes the response and, when dest is non-nil, its data field.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil {
		require.Nil(t, env.Error)
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) testEnvelope {
	t.Helper()
	require.Equal(t, status, rr.Code)
	env := decodeEnvelope(t, rr, nil)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return env
}

type fakeAuthService struct {
	user  *domain.User
	creds *domain.Credentials
	err   error

	gotUsername, gotEmail, gotPassword string
	gotRefresh                         string
	gotUserID                          int64
	gotCurrent, gotNew                 string
}

func (f *fakeAuthService) Register(_ context.Context, username, email, password string) (*domain.User, *domain.Credentials, error) {
	f.gotUsername, f.gotEmail, f.gotPassword = username, email, password
	return f.user, f.creds, f.err
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (*domain.User, *domain.Credentials, error) {
	f.gotUsername, f.gotPassword = username, password
	return f.user, f.creds, f.err
}

func (f *fakeAuthService) Refresh(_ context.Context, refreshToken string) (*domain.User, *domain.Credentials, error) {
	f.gotRefresh = refreshToken
	return f.user, f.creds, f.err
}

func (f *fakeAuthService) ChangePassword(_ context.Context, userID int64, current, next string) error {
	f.gotUserID, f.gotCurrent, f.gotNew = userID, current, next
	return f.err
}

type fakeUserService struct {
	users   []*domain.User
	profile *domain.Profile
	err     error

	gotParams domain.ListParams
	gotUserID int64
}

func (f *fakeUserService) List(_ context.Context, params domain.ListParams) ([]*domain.User, error) {
	f.gotParams = params
	return f.users, f.err
}

func (f *fakeUserService) GetProfile(_ context.Context, userID int64) (*domain.Profile, error) {
	f.gotUserID = userID
	return f.profile, f.err
}

func (f *fakeUserService) Delete(_ context.Context, userID int64) error {
	f.gotUserID = userID
	return f.err
}

type fakeEventService struct {
	events []*domain.Event
	event  *domain.Event
	rsvps  []*domain.RSVP
	err    error

	gotParams  domain.ListParams
	created    *domain.Event
	gotID      int64
	gotActorID int64
	gotPatch   domain.EventPatch
}

func (f *fakeEventService) ListEvents(_ context.Context, params domain.ListParams) ([]*domain.Event, error) {
	f.gotParams = params
	return f.events, f.err
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.created = event
	if f.err != nil {
		return f.err
	}
	event.ID = 1
	return nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id int64) (*domain.Event, []*domain.RSVP, error) {
	f.gotID = id
	return f.event, f.rsvps, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id, actorID int64, patch domain.EventPatch) (*domain.Event, error) {
	f.gotID, f.gotActorID, f.gotPatch = id, actorID, patch
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id, actorID int64) error {
	f.gotID, f.gotActorID = id, actorID
	return f.err
}

type fakeGroupService struct {
	groups  []*domain.Group
	group   *domain.Group
	members []*domain.UserSummary
	err     error

	created    *domain.Group
	gotID      int64
	gotActorID int64
}

func (f *fakeGroupService) ListGroups(_ context.Context, _ domain.ListParams) ([]*domain.Group, error) {
	return f.groups, f.err
}

func (f *fakeGroupService) CreateGroup(_ context.Context, group *domain.Group) error {
	f.created = group
	if f.err != nil {
		return f.err
	}
	group.ID = 1
	return nil
}

func (f *fakeGroupService) GetGroup(_ context.Context, id int64) (*domain.Group, []*domain.UserSummary, error) {
	f.gotID = id
	return f.group, f.members, f.err
}

func (f *fakeGroupService) DeleteGroup(_ context.Context, id, actorID int64) error {
	f.gotID, f.gotActorID = id, actorID
	return f.err
}

type fakeInvitationService struct {
	inv  *domain.GroupInvitation
	invs []*domain.GroupInvitation
	err  error

	called     string
	gotID      int64
	gotActorID int64
	gotInvitee int64
}

func (f *fakeInvitationService) Invite(_ context.Context, groupID, actorID, invitedUserID int64) (*domain.GroupInvitation, error) {
	f.called, f.gotID, f.gotActorID, f.gotInvitee = "invite", groupID, actorID, invitedUserID
	return f.inv, f.err
}

func (f *fakeInvitationService) ListPending(_ context.Context, userID int64) ([]*domain.GroupInvitation, error) {
	f.called, f.gotActorID = "pending", userID
	return f.invs, f.err
}

func (f *fakeInvitationService) ListForGroup(_ context.Context, groupID, actorID int64) ([]*domain.GroupInvitation, error) {
	f.called, f.gotID, f.gotActorID = "group", groupID, actorID
	return f.invs, f.err
}

func (f *fakeInvitationService) Accept(_ context.Context, id, actorID int64) (*domain.GroupInvitation, error) {
	f.called, f.gotID, f.gotActorID = "accept", id, actorID
	return f.inv, f.err
}

func (f *fakeInvitationService) Deny(_ context.Context, id, actorID int64) (*domain.GroupInvitation, error) {
	f.called, f.gotID, f.gotActorID = "deny", id, actorID
	return f.inv, f.err
}

type fakeRSVPService struct {
	rsvp    *domain.RSVP
	created bool
	rsvps   []*domain.RSVP
	err     error

	gotEventID int64
	gotUserID  int64
	gotStatus  string
}

func (f *fakeRSVPService) Respond(_ context.Context, eventID, userID int64, status string) (*domain.RSVP, bool, error) {
	f.gotEventID, f.gotUserID, f.gotStatus = eventID, userID, status
	return f.rsvp, f.created, f.err
}

func (f *fakeRSVPService) ListByEvent(_ context.Context, eventID int64) ([]*domain.RSVP, error) {
	f.gotEventID = eventID
	return f.rsvps, f.err
}

type fakeCommentService struct {
	comment  *domain.Comment
	comments []*domain.Comment
	err      error

	gotEventID int64
	gotUserID  int64
	gotContent string
}

func (f *fakeCommentService) Create(_ context.Context, eventID, userID int64, content string) (*domain.Comment, error) {
	f.gotEventID, f.gotUserID, f.gotContent = eventID, userID, content
	return f.comment, f.err
}

func (f *fakeCommentService) ListByEvent(_ context.Context, eventID int64) ([]*domain.Comment, error) {
	f.gotEventID = eventID
	return f.comments, f.err
}
