package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gatherly/internal/domain"
)

// memStore is an in-memory TxManager whose repositories share one set of maps.
type memStore struct {
	users       map[int64]*domain.User
	events      map[int64]*domain.Event
	groups      map[int64]*domain.Group
	members     map[int64]map[int64]bool
	rsvps       []*domain.RSVP
	comments    []*domain.Comment
	invitations map[int64]*domain.GroupInvitation
	nextID      int64

	txErr      error // returned by WithinTx before fn runs
	createErr  error // returned by every Create
	txCalls    int
	resetCalls int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]*domain.User),
		events:      make(map[int64]*domain.Event),
		groups:      make(map[int64]*domain.Group),
		members:     make(map[int64]map[int64]bool),
		invitations: make(map[int64]*domain.GroupInvitation),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	m.txCalls++
	if m.txErr != nil {
		return m.txErr
	}
	return fn(domain.Repositories{
		Users:       memUsers{m},
		Events:      memEvents{m},
		Groups:      memGroups{m},
		Invitations: memInvitations{m},
		RSVPs:       memRSVPs{m},
		Comments:    memComments{m},
	})
}

func (m *memStore) Reset(ctx context.Context) error {
	m.resetCalls++
	*m = memStore{
		users:       make(map[int64]*domain.User),
		events:      make(map[int64]*domain.Event),
		groups:      make(map[int64]*domain.Group),
		members:     make(map[int64]map[int64]bool),
		invitations: make(map[int64]*domain.GroupInvitation),
		resetCalls:  m.resetCalls,
		txCalls:     m.txCalls,
	}
	return nil
}

func (m *memStore) addUser(username string) *domain.User {
	u := &domain.User{ID: m.id(), Username: username, Email: username + "@example.com"}
	m.users[u.ID] = u
	return u
}

func (m *memStore) isMember(groupID, userID int64) bool {
	return m.members[groupID][userID]
}

func sortedKeys[V any](in map[int64]V) []int64 {
	keys := make([]int64, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	if r.m.createErr != nil {
		return r.m.createErr
	}
	for _, existing := range r.m.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = r.m.id()
	r.m.users[u.ID] = u
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, id := range sortedKeys(r.m.users) {
		if u := r.m.users[id]; match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r memUsers) List(ctx context.Context, params domain.ListParams) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range sortedKeys(r.m.users) {
		u := r.m.users[id]
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(params.Query)) && len(out) < params.Limit {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memUsers) UpdatePassword(ctx context.Context, id int64, hash, salt string) error {
	u, ok := r.m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash, u.Salt = hash, salt
	return nil
}

// Delete mirrors the schema's ON DELETE CASCADE rules.
func (r memUsers) Delete(ctx context.Context, id int64) error {
	m := r.m
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	for eid, e := range m.events {
		if e.UserID == id {
			_ = memEvents{m}.Delete(ctx, eid)
		}
	}
	for gid, g := range m.groups {
		if g.UserID == id {
			_ = memGroups{m}.Delete(ctx, gid)
		}
	}
	for _, set := range m.members {
		delete(set, id)
	}
	m.rsvps = filter(m.rsvps, func(v *domain.RSVP) bool { return v.UserID != id })
	m.comments = filter(m.comments, func(c *domain.Comment) bool { return c.UserID != id })
	for iid, inv := range m.invitations {
		if inv.UserID == id || inv.InvitedUserID == id {
			delete(m.invitations, iid)
		}
	}
	return nil
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

type memEvents struct{ m *memStore }

func (r memEvents) Create(ctx context.Context, e *domain.Event) error {
	if r.m.createErr != nil {
		return r.m.createErr
	}
	e.ID = r.m.id()
	cp := *e
	r.m.events[e.ID] = &cp
	return nil
}

func (r memEvents) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := r.m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memEvents) List(ctx context.Context, params domain.ListParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, id := range sortedKeys(r.m.events) {
		e := r.m.events[id]
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(params.Query)) && len(out) < params.Limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEvents) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := r.m.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	r.m.events[e.ID] = &cp
	return nil
}

func (r memEvents) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.events, id)
	r.m.rsvps = filter(r.m.rsvps, func(v *domain.RSVP) bool { return v.EventID != id })
	r.m.comments = filter(r.m.comments, func(c *domain.Comment) bool { return c.EventID != id })
	return nil
}

type memGroups struct{ m *memStore }

func (r memGroups) Create(ctx context.Context, g *domain.Group) error {
	if r.m.createErr != nil {
		return r.m.createErr
	}
	g.ID = r.m.id()
	cp := *g
	r.m.groups[g.ID] = &cp
	return nil
}

func (r memGroups) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	if g, ok := r.m.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memGroups) List(ctx context.Context, params domain.ListParams) ([]*domain.Group, error) {
	var out []*domain.Group
	for _, id := range sortedKeys(r.m.groups) {
		g := r.m.groups[id]
		if strings.Contains(strings.ToLower(g.Name), strings.ToLower(params.Query)) && len(out) < params.Limit {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r memGroups) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.groups, id)
	delete(r.m.members, id)
	for iid, inv := range r.m.invitations {
		if inv.GroupID == id {
			delete(r.m.invitations, iid)
		}
	}
	return nil
}

func (r memGroups) AddMember(ctx context.Context, groupID, userID int64) error {
	if _, ok := r.m.groups[groupID]; !ok {
		return errors.New("fk violation: group")
	}
	if r.m.members[groupID] == nil {
		r.m.members[groupID] = make(map[int64]bool)
	}
	r.m.members[groupID][userID] = true
	return nil
}

func (r memGroups) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	return r.m.isMember(groupID, userID), nil
}

func (r memGroups) ListMembers(ctx context.Context, groupID int64) ([]*domain.UserSummary, error) {
	var out []*domain.UserSummary
	for _, uid := range sortedKeys(r.m.members[groupID]) {
		if u, ok := r.m.users[uid]; ok {
			out = append(out, &domain.UserSummary{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

func (r memGroups) ListByMemberID(ctx context.Context, userID int64) ([]*domain.Group, error) {
	var out []*domain.Group
	for _, gid := range sortedKeys(r.m.groups) {
		if r.m.isMember(gid, userID) {
			out = append(out, r.m.groups[gid])
		}
	}
	return out, nil
}

type memInvitations struct{ m *memStore }

func (r memInvitations) Create(ctx context.Context, inv *domain.GroupInvitation) error {
	if r.m.createErr != nil {
		return r.m.createErr
	}
	if inv.Status == domain.InvitationPending {
		for _, existing := range r.m.invitations {
			if existing.Status == domain.InvitationPending && existing.GroupID == inv.GroupID && existing.InvitedUserID == inv.InvitedUserID {
				return domain.ErrAlreadyInvited
			}
		}
	}
	inv.ID = r.m.id()
	cp := *inv
	r.m.invitations[inv.ID] = &cp
	return nil
}

func (r memInvitations) GetByID(ctx context.Context, id int64) (*domain.GroupInvitation, error) {
	if inv, ok := r.m.invitations[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memInvitations) list(match func(*domain.GroupInvitation) bool) []*domain.GroupInvitation {
	var out []*domain.GroupInvitation
	for _, id := range sortedKeys(r.m.invitations) {
		if inv := r.m.invitations[id]; match(inv) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out
}

func (r memInvitations) ListPendingByInvitee(ctx context.Context, userID int64) ([]*domain.GroupInvitation, error) {
	return r.list(func(inv *domain.GroupInvitation) bool {
		return inv.InvitedUserID == userID && inv.Status == domain.InvitationPending
	}), nil
}

func (r memInvitations) ListByGroupID(ctx context.Context, groupID int64) ([]*domain.GroupInvitation, error) {
	return r.list(func(inv *domain.GroupInvitation) bool { return inv.GroupID == groupID }), nil
}

func (r memInvitations) UpdateStatus(ctx context.Context, id int64, status string) error {
	inv, ok := r.m.invitations[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

type memRSVPs struct{ m *memStore }

func (r memRSVPs) Upsert(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	for _, existing := range r.m.rsvps {
		if existing.UserID == rsvp.UserID && existing.EventID == rsvp.EventID {
			existing.Status = rsvp.Status
			rsvp.ID = existing.ID
			rsvp.CreatedAt = existing.CreatedAt
			return false, nil
		}
	}
	rsvp.ID = r.m.id()
	cp := *rsvp
	r.m.rsvps = append(r.m.rsvps, &cp)
	return true, nil
}

func (r memRSVPs) ListByEventID(ctx context.Context, eventID int64) ([]*domain.RSVP, error) {
	var out []*domain.RSVP
	for _, v := range r.m.rsvps {
		if v.EventID == eventID {
			cp := *v
			if u, ok := r.m.users[v.UserID]; ok {
				cp.Username = u.Username
			}
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memRSVPs) ListEventsByUserID(ctx context.Context, userID int64) ([]*domain.ProfileEvent, error) {
	var out []*domain.ProfileEvent
	for _, v := range r.m.rsvps {
		if v.UserID == userID {
			out = append(out, &domain.ProfileEvent{Event: r.m.events[v.EventID], RSVPStatus: v.Status})
		}
	}
	return out, nil
}

type memComments struct{ m *memStore }

func (r memComments) Create(ctx context.Context, c *domain.Comment) error {
	if r.m.createErr != nil {
		return r.m.createErr
	}
	c.ID = r.m.id()
	cp := *c
	r.m.comments = append(r.m.comments, &cp)
	return nil
}

func (r memComments) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.m.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	saltN int
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) {
	f.saltN++
	return "salt" + string(rune('0'+f.saltN%10)), nil
}

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password && hash != "legacy:"+salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// NeedsRehash flags hashes written with the "legacy:" prefix.
func (f *fakePasswordHasher) NeedsRehash(hash string) bool {
	return strings.HasPrefix(hash, "legacy:")
}

// fakeEmailService records invitation emails.
type fakeEmailService struct {
	sent []*domain.GroupInvitationEmailData
	err  error
}

func (f *fakeEmailService) SendGroupInvitation(ctx context.Context, data *domain.GroupInvitationEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}
