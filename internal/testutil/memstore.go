package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/google/uuid"
)

// AccountStore is an in-memory repository.AccountRepository. Setting Err
// makes every call fail with it.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
	Err      error
}

// NewAccountStore creates an empty account store
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[uuid.UUID]models.Account)}
}

func (s *AccountStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, a := range s.accounts {
		if a.Username == account.Username {
			return repository.ErrUsernameExists
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = *account
	return nil
}

func (s *AccountStore) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &a, nil
}

func (s *AccountStore) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (s *AccountStore) RecordFailedLogin(_ context.Context, id uuid.UUID, at time.Time, maxAttempts int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, false, s.Err
	}
	a, ok := s.accounts[id]
	if !ok {
		return 0, false, repository.ErrAccountNotFound
	}
	a.FailedLoginAttempts++
	a.LastLoginAttempt = &at
	if a.FailedLoginAttempts >= maxAttempts {
		a.IsActive = false
	}
	a.UpdatedAt = at
	s.accounts[id] = a
	return a.FailedLoginAttempts, a.IsActive, nil
}

func (s *AccountStore) RecordSuccessfulLogin(_ context.Context, id uuid.UUID, at time.Time, ip *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	a, ok := s.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.FailedLoginAttempts = 0
	a.LastLoginAttempt = &at
	if ip != nil {
		a.IPAddress = Ptr(*ip)
	}
	a.UpdatedAt = at
	s.accounts[id] = a
	return nil
}

func (s *AccountStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

// Reactivate mimics the manual store update that lifts a lockout
func (s *AccountStore) Reactivate(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.IsActive = true
		a.FailedLoginAttempts = 0
		s.accounts[id] = a
	}
}

// PostStore is an in-memory repository.PostRepository
type PostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post
	Err   error
}

// NewPostStore creates a post store seeded with posts
func NewPostStore(posts ...models.Post) *PostStore {
	s := &PostStore{posts: make(map[uuid.UUID]models.Post)}
	for _, p := range posts {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.posts[p.ID] = p
	}
	return s
}

// Seed stores post as given, keeping its timestamps and counters
func (s *PostStore) Seed(post models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if _, ok := s.posts[post.ID]; ok {
		return repository.ErrConflict
	}
	s.posts[post.ID] = post
	return nil
}

func (s *PostStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.Number == 0 {
		for _, p := range s.posts {
			if p.Number > post.Number {
				post.Number = p.Number
			}
		}
		post.Number++
	}
	if post.FileURLs == nil {
		post.FileURLs = []string{}
	}
	now := time.Now().UTC()
	post.Views = 0
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = *post
	return nil
}

func (s *PostStore) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return &p, nil
}

func (s *PostStore) IncrementViews(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	p.Views++
	s.posts[id] = p
	return &p, nil
}

func (s *PostStore) Update(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.posts[post.ID]
	if !ok {
		return repository.ErrPostNotFound
	}
	p.Title = post.Title
	p.Content = post.Content
	p.FileURLs = post.FileURLs
	p.UpdatedAt = time.Now().UTC()
	s.posts[post.ID] = p
	*post = p
	return nil
}

func (s *PostStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// ContactStore is an in-memory repository.ContactRepository
type ContactStore struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]models.Contact
	Err      error
}

// NewContactStore creates an inquiry store seeded with contacts
func NewContactStore(contacts ...models.Contact) *ContactStore {
	s := &ContactStore{contacts: make(map[uuid.UUID]models.Contact)}
	for _, c := range contacts {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		s.contacts[c.ID] = c
	}
	return s
}

// Seed stores contact as given, keeping its timestamp
func (s *ContactStore) Seed(contact models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if _, ok := s.contacts[contact.ID]; ok {
		return repository.ErrConflict
	}
	s.contacts[contact.ID] = contact
	return nil
}

func (s *ContactStore) Create(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if contact.Status == "" {
		contact.Status = models.ContactStatusPending
	}
	contact.CreatedAt = time.Now().UTC()
	s.contacts[contact.ID] = *contact
	return nil
}

func (s *ContactStore) GetByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	return &c, nil
}

func (s *ContactStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.ContactStatus) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	c.Status = status
	s.contacts[id] = c
	return &c, nil
}

func (s *ContactStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.contacts[id]; !ok {
		return repository.ErrContactNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *ContactStore) List(_ context.Context) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	contacts := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		contacts = append(contacts, c)
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
	return contacts, nil
}

var (
	_ repository.AccountRepository = (*AccountStore)(nil)
	_ repository.PostRepository    = (*PostStore)(nil)
	_ repository.ContactRepository = (*ContactStore)(nil)
)
