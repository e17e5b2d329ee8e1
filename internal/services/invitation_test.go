package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invitationFixture struct {
	store  *memStore
	alice  *domain.User
	bob    *domain.User
	carol  *domain.User
	group  *domain.Group
	email  *fakeEmailService
	svc    domain.InvitationService
	groups domain.GroupService
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := &invitationFixture{store: newMemStore(), email: &fakeEmailService{}}
	f.alice = f.store.addUser("alice")
	f.bob = f.store.addUser("bob")
	f.carol = f.store.addUser("carol")
	f.groups = NewGroupService(f.store, time.Second)
	f.svc = NewInvitationService(f.store, f.email, nil, time.Second)
	f.group = &domain.Group{Name: "Hikers", Description: "walks", UserID: f.alice.ID}
	require.NoError(t, f.groups.CreateGroup(context.Background(), f.group))
	return f
}

func TestInvitationService_Invite(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		groupID func(f *invitationFixture) int64
		actor   func(f *invitationFixture) int64
		invitee func(f *invitationFixture) int64
		wantErr error
	}{
		{
			name:    "owner invites",
			actor:   func(f *invitationFixture) int64 { return f.alice.ID },
			invitee: func(f *invitationFixture) int64 { return f.bob.ID },
		},
		{
			name:    "missing group",
			groupID: func(*invitationFixture) int64 { return 999 },
			actor:   func(f *invitationFixture) int64 { return f.alice.ID },
			invitee: func(f *invitationFixture) int64 { return f.bob.ID },
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "non-owner",
			actor:   func(f *invitationFixture) int64 { return f.bob.ID },
			invitee: func(f *invitationFixture) int64 { return f.carol.ID },
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "missing invitee id",
			actor:   func(f *invitationFixture) int64 { return f.alice.ID },
			invitee: func(*invitationFixture) int64 { return 0 },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown invitee",
			actor:   func(f *invitationFixture) int64 { return f.alice.ID },
			invitee: func(*invitationFixture) int64 { return 999 },
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "already a member",
			actor:   func(f *invitationFixture) int64 { return f.alice.ID },
			invitee: func(f *invitationFixture) int64 { return f.alice.ID },
			wantErr: domain.ErrAlreadyMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvitationFixture(t)
			groupID := f.group.ID
			if tt.groupID != nil {
				groupID = tt.groupID(f)
			}
			inv, err := f.svc.Invite(ctx, groupID, tt.actor(f), tt.invitee(f))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.store.invitations)
				assert.Empty(t, f.email.sent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.InvitationPending, inv.Status)
			assert.Equal(t, "Hikers", inv.GroupName)
			assert.Equal(t, "alice", inv.InviterUsername)
			require.Len(t, f.email.sent, 1)
			assert.Equal(t, "bob@example.com", f.email.sent[0].Email)
			assert.Equal(t, inv.ID, f.email.sent[0].InvitationID)
		})
	}
}

func TestInvitationService_InviteRejectsSecondPending(t *testing.T) {
	ctx := context.Background()
	f := newInvitationFixture(t)

	first, err := f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.bob.ID)
	require.NoError(t, err)

	_, err = f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.bob.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyInvited)
	assert.Len(t, f.store.invitations, 1)
	assert.Len(t, f.email.sent, 1)

	_, err = f.svc.Deny(ctx, first.ID, f.bob.ID)
	require.NoError(t, err)
	again, err := f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.bob.ID)
	require.NoError(t, err, "a denied invitation can be followed by a new one")
	assert.NotEqual(t, first.ID, again.ID)

	pending, err := f.svc.ListPending(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, again.ID, pending[0].ID)
}

func TestInvitationService_InviteEmailFailureIsIgnored(t *testing.T) {
	f := newInvitationFixture(t)
	f.email.err = errors.New("ses down")

	inv, err := f.svc.Invite(context.Background(), f.group.ID, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Contains(t, f.store.invitations, inv.ID)
}

func TestInvitationService_Transitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		steps      []string
		wantStatus string
		wantErr    error
		wantMember bool
	}{
		{name: "accept", steps: []string{"accept"}, wantStatus: domain.InvitationAccepted, wantMember: true},
		{name: "deny", steps: []string{"deny"}, wantStatus: domain.InvitationDenied},
		{name: "accept twice is a no-op", steps: []string{"accept", "accept"}, wantStatus: domain.InvitationAccepted, wantMember: true},
		{name: "deny twice is a no-op", steps: []string{"deny", "deny"}, wantStatus: domain.InvitationDenied},
		{name: "accept after deny", steps: []string{"deny", "accept"}, wantStatus: domain.InvitationDenied, wantErr: domain.ErrInvalidTransition},
		{name: "deny after accept", steps: []string{"accept", "deny"}, wantStatus: domain.InvitationAccepted, wantErr: domain.ErrInvalidTransition, wantMember: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvitationFixture(t)
			inv, err := f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.bob.ID)
			require.NoError(t, err)

			for i, step := range tt.steps {
				var got *domain.GroupInvitation
				if step == "accept" {
					got, err = f.svc.Accept(ctx, inv.ID, f.bob.ID)
				} else {
					got, err = f.svc.Deny(ctx, inv.ID, f.bob.ID)
				}
				if i < len(tt.steps)-1 {
					require.NoError(t, err)
					continue
				}
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
				} else {
					require.NoError(t, err)
					assert.Equal(t, tt.wantStatus, got.Status)
				}
			}
			assert.Equal(t, tt.wantStatus, f.store.invitations[inv.ID].Status)
			assert.Equal(t, tt.wantMember, f.store.isMember(f.group.ID, f.bob.ID))

			_, members, err := f.groups.GetGroup(ctx, f.group.ID)
			require.NoError(t, err)
			count := 0
			for _, m := range members {
				if m.ID == f.bob.ID {
					count++
				}
			}
			assert.LessOrEqual(t, count, 1)
		})
	}
}

func TestInvitationService_ResolveAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newInvitationFixture(t)
	inv, err := f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.bob.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, inv.ID, f.carol.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Deny(ctx, inv.ID, f.alice.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "the inviter cannot answer for the invitee")
	_, err = f.svc.Accept(ctx, 999, f.bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.InvitationPending, f.store.invitations[inv.ID].Status)
}

func TestInvitationService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newInvitationFixture(t)
	first, err := f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.svc.Invite(ctx, f.group.ID, f.alice.ID, f.carol.ID)
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	_, err = f.svc.Deny(ctx, first.ID, f.bob.ID)
	require.NoError(t, err)
	pending, err = f.svc.ListPending(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, pending)
	assert.Empty(t, pending)

	all, err := f.svc.ListForGroup(ctx, f.group.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.ListForGroup(ctx, f.group.ID, f.bob.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.ListForGroup(ctx, 999, f.alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
