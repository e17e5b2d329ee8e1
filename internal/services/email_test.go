package services

import (
	"context"
	"errors"
	"testing"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

type fakeRenderer struct {
	name string
	err  error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.name = name
	if f.err != nil {
		return "", "", "", f.err
	}
	d := data.(*domain.GroupInvitationEmailData)
	return "Join " + d.GroupName, "<p>" + d.InviterUsername + "</p>", d.InviterUsername, nil
}

func TestEmailService_SendGroupInvitation(t *testing.T) {
	ctx := context.Background()
	data := &domain.GroupInvitationEmailData{
		Email: "bob@example.com", InviteeUsername: "bob", InviterUsername: "alice", GroupName: "Hikers", InvitationID: 3,
	}

	tests := []struct {
		name      string
		data      *domain.GroupInvitationEmailData
		renderErr error
		sendErr   error
		wantErr   bool
	}{
		{name: "success", data: data},
		{name: "nil data", data: nil, wantErr: true},
		{name: "no recipient", data: &domain.GroupInvitationEmailData{GroupName: "Hikers"}, wantErr: true},
		{name: "render error", data: data, renderErr: errors.New("bad template"), wantErr: true},
		{name: "send error", data: data, sendErr: errors.New("ses down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{err: tt.sendErr}
			renderer := &fakeRenderer{err: tt.renderErr}
			svc := NewEmailService(mailer, renderer, nil)

			err := svc.SendGroupInvitation(ctx, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "group_invitation", renderer.name)
			assert.Equal(t, "bob@example.com", mailer.to)
			assert.Equal(t, "Join Hikers", mailer.subject)
		})
	}
}
