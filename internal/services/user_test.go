package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	for _, name := range []string{"alice", "bob", "alicia", "carol"} {
		store.addUser(name)
	}
	svc := NewUserService(store, time.Second)

	tests := []struct {
		name   string
		params domain.ListParams
		want   []string
	}{
		{name: "all with default limit", params: domain.ListParams{}, want: []string{"alice", "bob", "alicia", "carol"}},
		{name: "substring case-insensitive", params: domain.ListParams{Query: "ALI"}, want: []string{"alice", "alicia"}},
		{name: "limit", params: domain.ListParams{Limit: 2}, want: []string{"alice", "bob"}},
		{name: "no match is empty not nil", params: domain.ListParams{Query: "zed"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := svc.List(ctx, tt.params)
			require.NoError(t, err)
			require.NotNil(t, users)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Username)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	alice := store.addUser("alice")
	svc := NewUserService(store, time.Second)
	groups := NewGroupService(store, time.Second)
	events := NewEventService(store, time.Second)
	rsvps := NewRSVPService(store, time.Second)

	g := &domain.Group{Name: "Hikers", Description: "walks", UserID: alice.ID}
	require.NoError(t, groups.CreateGroup(ctx, g))
	e := &domain.Event{Name: "Picnic", Date: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), Location: "Park", Description: "food", UserID: alice.ID}
	require.NoError(t, events.CreateEvent(ctx, e))
	_, _, err := rsvps.Respond(ctx, e.ID, alice.ID, domain.RSVPMaybe)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	require.Len(t, profile.Groups, 1)
	assert.Equal(t, "Hikers", profile.Groups[0].Name)
	require.Len(t, profile.Events, 1)
	assert.Equal(t, "Picnic", profile.Events[0].Event.Name)
	assert.Equal(t, domain.RSVPMaybe, profile.Events[0].RSVPStatus)

	bob := store.addUser("bob")
	empty, err := svc.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.Groups)
	assert.NotNil(t, empty.Events)

	_, err = svc.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	svc := NewUserService(store, time.Second)
	events := NewEventService(store, time.Second)
	comments := NewCommentService(store, time.Second)
	rsvps := NewRSVPService(store, time.Second)

	e := &domain.Event{Name: "Picnic", Date: time.Now(), Location: "Park", Description: "food", UserID: alice.ID}
	require.NoError(t, events.CreateEvent(ctx, e))
	_, err := comments.Create(ctx, e.ID, bob.ID, "see you")
	require.NoError(t, err)
	_, _, err = rsvps.Respond(ctx, e.ID, bob.ID, domain.RSVPGoing)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice.ID))
	assert.Empty(t, store.events)
	assert.Empty(t, store.comments)
	assert.Empty(t, store.rsvps)
	assert.Contains(t, store.users, bob.ID)

	assert.ErrorIs(t, svc.Delete(ctx, alice.ID), domain.ErrUserNotFound)
}

func TestUserService_StoreError(t *testing.T) {
	store := newMemStore()
	store.txErr = sql.ErrConnDone
	svc := NewUserService(store, time.Second)

	_, err := svc.List(context.Background(), domain.ListParams{})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	_, err = svc.GetProfile(context.Background(), 1)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
