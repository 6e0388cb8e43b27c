package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/staco-app/directory-service/internal/directory/domain"
)

type fakeListingRepo struct {
	mu       sync.Mutex
	seq      int
	listings map[string]*domain.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*domain.Listing{}}
}

func (r *fakeListingRepo) Create(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	l.ID = fmt.Sprintf("listing-%03d", r.seq)
	l.CreatedAt = time.Now().UTC()
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	cp := *l
	cp.InterestedUsers = append([]string(nil), l.InterestedUsers...)
	return &cp, nil
}

func (r *fakeListingRepo) FindAll(_ context.Context) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeListingRepo) FindByInterestedUser(_ context.Context, userID string) ([]*domain.Listing, error) {
	all, _ := r.FindAll(context.Background())
	out := make([]*domain.Listing, 0)
	for _, l := range all {
		if l.Interested(userID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) AddInterest(_ context.Context, listingID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	if !l.Interested(userID) {
		l.InterestedUsers = append(l.InterestedUsers, userID)
	}
	return nil
}

func (r *fakeListingRepo) RemoveInterest(_ context.Context, listingID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	for i, id := range l.InterestedUsers {
		if id == userID {
			l.InterestedUsers = append(l.InterestedUsers[:i], l.InterestedUsers[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeListingRepo) AppendImage(_ context.Context, listingID, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.ImagePaths = append(l.ImagePaths, path)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%03d", r.seq)
	u.CreatedAt = time.Now().UTC()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) SetEmailVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsEmailVerified = true
	return nil
}

type fakeStorage struct {
	mu       sync.Mutex
	seq      int
	uploaded []string
	deleted  []string
}

func (s *fakeStorage) Upload(_ context.Context, fileName string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ref := fmt.Sprintf("photos/%03d-%s", s.seq, fileName)
	s.uploaded = append(s.uploaded, ref)
	return ref, nil
}

func (s *fakeStorage) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, ref)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.Listing
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*domain.Listing{}}
}

func (c *fakeCache) Get(_ context.Context, id string) (*domain.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (c *fakeCache) Set(_ context.Context, l *domain.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *l
	c.entries[l.ID] = &cp
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes = append(c.deletes, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []InterestEvent
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(InterestEvent); ok {
		p.events = append(p.events, e)
	}
	return nil
}

type fakeMailer struct {
	mu            sync.Mutex
	verifications []string
	interests     []string
}

func (m *fakeMailer) SendVerificationEmail(to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, to)
	return nil
}

func (m *fakeMailer) SendInterestEmail(to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interests = append(m.interests, to)
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
	last   string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]string{}}
}

func (s *fakeTokenStore) SaveVerification(_ context.Context, token, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	s.last = token
	return nil
}

func (s *fakeTokenStore) ConsumeVerification(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.tokens, token)
	return userID, nil
}
