package domain

import "context"

// Repositories groups the repositories bound to a single transaction.
type Repositories struct {
	Users       UserRepository
	Events      EventRepository
	Groups      GroupRepository
	Invitations GroupInvitationRepository
	RSVPs       RSVPRepository
	Comments    CommentRepository
}

// TxManager runs fn inside one storage transaction. The transaction commits when fn
// returns nil and rolls back on any error or panic.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
