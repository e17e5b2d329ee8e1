package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"gatherly/internal/domain"
)

// SeedPassword is the plaintext password of every seeded user.
const SeedPassword = "password123"

// SeedStore is the storage the seeder needs: a transaction runner that can also be emptied.
type SeedStore interface {
	domain.TxManager
	Reset(ctx context.Context) error
}

// SeedCounts sets how many rows of each kind the seeder inserts.
type SeedCounts struct {
	Users       int
	Groups      int
	Events      int
	RSVPs       int
	Comments    int
	Invitations int
}

// DefaultSeedCounts returns the development dataset size.
func DefaultSeedCounts() SeedCounts {
	return SeedCounts{Users: 10, Groups: 5, Events: 10, RSVPs: 20, Comments: 30, Invitations: 20}
}

// Seeder fills an empty store with synthetic development data.
type Seeder struct {
	store  SeedStore
	hasher domain.PasswordHasher
	logger *slog.Logger
	rng    *rand.Rand
	now    func() time.Time
}

// NewSeeder creates a Seeder. seed makes the generated dataset reproducible.
func NewSeeder(store SeedStore, hasher domain.PasswordHasher, logger *slog.Logger, seed uint64) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		store:  store,
		hasher: hasher,
		logger: logger,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:    time.Now,
	}
}

var (
	seedFirstNames = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy", "mallory", "oscar"}
	seedWords      = []string{"hikers", "chess", "bakers", "cyclists", "readers", "climbers", "gamers", "painters", "runners", "birders"}
	seedAdjectives = []string{"Annual", "Weekly", "Open", "Community", "Late-night", "Sunday", "Friendly", "Grand"}
	seedNouns      = []string{"meetup", "picnic", "tournament", "workshop", "potluck", "hackathon", "concert", "cleanup"}
	seedCities     = []string{"Lisbon", "Austin", "Berlin", "Osaka", "Nairobi", "Toronto", "Melbourne", "Porto"}
	seedSentences  = []string{
		"Bring a friend and something to share.",
		"We start on time, so please arrive early.",
		"All skill levels are welcome.",
		"Snacks and drinks will be provided.",
		"Check the group page for last-minute changes.",
		"Looking forward to seeing everyone there!",
	}
	seedRSVPStatuses       = []string{domain.RSVPGoing, domain.RSVPNotGoing, domain.RSVPMaybe}
	seedInvitationStatuses = []string{domain.InvitationPending, domain.InvitationAccepted, domain.InvitationDenied}
)

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

func (s *Seeder) sentence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(s.rng, seedSentences)
	}
	return strings.Join(parts, " ")
}

// Seed empties the store and inserts counts rows of each kind in one transaction.
func (s *Seeder) Seed(ctx context.Context, counts SeedCounts) error {
	if counts.RSVPs < 0 || counts.Comments < 0 || counts.Invitations < 0 {
		return fmt.Errorf("%w: seed counts must not be negative", domain.ErrInvalidInput)
	}
	if counts.Users < 2 || counts.Groups < 1 || counts.Events < 1 {
		return fmt.Errorf("%w: seeding needs at least 2 users, 1 group and 1 event", domain.ErrInvalidInput)
	}
	if limit := counts.Users * counts.Events; counts.RSVPs > limit {
		return fmt.Errorf("%w: at most %d rsvps fit %d users and %d events", domain.ErrInvalidInput, limit, counts.Users, counts.Events)
	}

	if err := s.store.Reset(ctx); err != nil {
		return err
	}

	now := s.now().UTC()
	err := s.store.WithinTx(ctx, func(repos domain.Repositories) error {
		users, err := s.seedUsers(ctx, repos, counts.Users, now)
		if err != nil {
			return err
		}
		groups, err := s.seedGroups(ctx, repos, users, counts.Groups, now)
		if err != nil {
			return err
		}
		events, err := s.seedEvents(ctx, repos, users, counts.Events, now)
		if err != nil {
			return err
		}
		if err := s.seedRSVPs(ctx, repos, users, events, counts.RSVPs, now); err != nil {
			return err
		}
		if err := s.seedComments(ctx, repos, users, events, counts.Comments, now); err != nil {
			return err
		}
		return s.seedInvitations(ctx, repos, users, groups, counts.Invitations, now)
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	s.logger.InfoContext(ctx, "database seeded",
		"users", counts.Users,
		"groups", counts.Groups,
		"events", counts.Events,
		"rsvps", counts.RSVPs,
		"comments", counts.Comments,
		"invitations", counts.Invitations,
		"password", SeedPassword,
	)
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, repos domain.Repositories, n int, now time.Time) ([]*domain.User, error) {
	users := make([]*domain.User, 0, n)
	for i := range n {
		username := fmt.Sprintf("%s%d", pick(s.rng, seedFirstNames), i+1)
		salt, err := s.hasher.GenerateSalt()
		if err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(salt, SeedPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u := domain.NewUser(username, username+"@example.com", now)
		u.PasswordHash = hash
		u.Salt = salt
		if err := repos.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Seeder) seedGroups(ctx context.Context, repos domain.Repositories, users []*domain.User, n int, now time.Time) ([]*domain.Group, error) {
	groups := make([]*domain.Group, 0, n)
	for range n {
		owner := pick(s.rng, users)
		g := domain.NewGroup(pick(s.rng, seedCities)+" "+pick(s.rng, seedWords), s.sentence(2), owner.ID, now)
		if err := repos.Groups.Create(ctx, g); err != nil {
			return nil, fmt.Errorf("create group: %w", err)
		}
		if err := repos.Groups.AddMember(ctx, g.ID, owner.ID); err != nil {
			return nil, fmt.Errorf("add group owner: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *Seeder) seedEvents(ctx context.Context, repos domain.Repositories, users []*domain.User, n int, now time.Time) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0, n)
	base := now.Truncate(time.Hour)
	for range n {
		date := base.Add(time.Duration(s.rng.IntN(90*24)) * time.Hour)
		name := pick(s.rng, seedAdjectives) + " " + pick(s.rng, seedNouns)
		e := domain.NewEvent(name, date, pick(s.rng, seedCities), s.sentence(3), pick(s.rng, users).ID, now)
		if err := repos.Events.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("create event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}

// seedRSVPs draws n distinct (user, event) pairs so each insert creates a new row.
func (s *Seeder) seedRSVPs(ctx context.Context, repos domain.Repositories, users []*domain.User, events []*domain.Event, n int, now time.Time) error {
	pairs := s.rng.Perm(len(users) * len(events))[:n]
	for _, p := range pairs {
		r := &domain.RSVP{
			UserID:    users[p/len(events)].ID,
			EventID:   events[p%len(events)].ID,
			Status:    pick(s.rng, seedRSVPStatuses),
			CreatedAt: now,
		}
		if _, err := repos.RSVPs.Upsert(ctx, r); err != nil {
			return fmt.Errorf("create rsvp: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedComments(ctx context.Context, repos domain.Repositories, users []*domain.User, events []*domain.Event, n int, now time.Time) error {
	for range n {
		c := &domain.Comment{
			Content:   s.sentence(1),
			UserID:    pick(s.rng, users).ID,
			EventID:   pick(s.rng, events).ID,
			CreatedAt: now,
		}
		if err := repos.Comments.Create(ctx, c); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
	}
	return nil
}

// seedInvitations has each group's owner invite another user. Accepted invitations
// also add the invitee to the group.
func (s *Seeder) seedInvitations(ctx context.Context, repos domain.Repositories, users []*domain.User, groups []*domain.Group, n int, now time.Time) error {
	// At most one pending invitation per group and invitee.
	pending := make(map[[2]int64]bool)
	for range n {
		g := pick(s.rng, groups)
		invitee := pick(s.rng, users)
		for invitee.ID == g.UserID {
			invitee = pick(s.rng, users)
		}
		status := pick(s.rng, seedInvitationStatuses)
		key := [2]int64{g.ID, invitee.ID}
		if status == domain.InvitationPending {
			if pending[key] {
				status = domain.InvitationDenied
			}
			pending[key] = true
		}
		inv := &domain.GroupInvitation{
			GroupID:       g.ID,
			UserID:        g.UserID,
			InvitedUserID: invitee.ID,
			Status:        status,
			CreatedAt:     now,
		}
		if err := repos.Invitations.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invitation: %w", err)
		}
		if inv.Status == domain.InvitationAccepted {
			if err := repos.Groups.AddMember(ctx, g.ID, invitee.ID); err != nil {
				return fmt.Errorf("add member: %w", err)
			}
		}
	}
	return nil
}
