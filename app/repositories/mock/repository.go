// Package mock provides an in-memory Store for tests. Update works on a copy
// of the data and swaps it in only when the callback succeeds.
package mock

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"blogdesk/app/models"
	"blogdesk/app/repositories"
)

type Store struct {
	mutex sync.Mutex
	data  *state
	// FailWith, when set, is returned by every transaction before it runs.
	FailWith error
}

type state struct {
	users      map[int]*models.User
	posts      map[int]*models.Post
	nextUserID int
	nextPostID int
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func newState() *state {
	return &state{
		users:      make(map[int]*models.User),
		posts:      make(map[int]*models.Post),
		nextUserID: 1,
		nextPostID: 1,
	}
}

func (s *state) clone() *state {
	c := &state{
		users:      make(map[int]*models.User, len(s.users)),
		posts:      make(map[int]*models.Post, len(s.posts)),
		nextUserID: s.nextUserID,
		nextPostID: s.nextPostID,
	}
	for id, u := range s.users {
		copied := *u
		c.users[id] = &copied
	}
	for id, p := range s.posts {
		copied := *p
		c.posts[id] = &copied
	}
	return c
}

// Clear drops all data and resets the id sequences.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = newState()
}

func (s *Store) View(ctx context.Context, fn func(tx repositories.Tx) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	return fn(&tx{data: s.data.clone()})
}

func (s *Store) Update(ctx context.Context, fn func(tx repositories.Tx) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	working := s.data.clone()
	if err := fn(&tx{data: working}); err != nil {
		return err
	}
	s.data = working
	return nil
}

func (s *Store) Close() error {
	return nil
}

type tx struct {
	data *state
}

func (t *tx) Users() repositories.UserRepository {
	return &UserRepository{data: t.data}
}

func (t *tx) Posts() repositories.PostRepository {
	return &PostRepository{data: t.data}
}

type UserRepository struct {
	data *state
}

// UserRepository implementation
func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}
	for _, existing := range m.data.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}

	user.ID = m.data.nextUserID
	m.data.nextUserID++
	stored := *user
	m.data.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, exists := m.data.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, user := range m.sorted() {
		if user.Username == username || user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	return m.sorted(), nil
}

func (m *UserRepository) Delete(ctx context.Context, id int) error {
	if _, exists := m.data.users[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.data.users, id)
	return nil
}

func (m *UserRepository) sorted() []*models.User {
	users := make([]*models.User, 0, len(m.data.users))
	for _, u := range m.data.users {
		copied := *u
		users = append(users, &copied)
	}
	slices.SortFunc(users, func(a, b *models.User) int { return cmp.Compare(a.ID, b.ID) })
	return users
}

type PostRepository struct {
	data *state
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}
	post.ID = m.data.nextPostID
	m.data.nextPostID++
	stored := *post
	m.data.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	post, exists := m.data.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return m.sorted(), nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	if _, exists := m.data.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *post
	m.data.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int) error {
	if _, exists := m.data.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.data.posts, id)
	return nil
}

func (m *PostRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	needle := strings.ToLower(term)
	matches := []*models.Post{}
	for _, p := range m.sorted() {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			matches = append(matches, p)
		}
	}
	slices.SortStableFunc(matches, func(a, b *models.Post) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})
	return matches, nil
}

func (m *PostRepository) sorted() []*models.Post {
	posts := make([]*models.Post, 0, len(m.data.posts))
	for _, p := range m.data.posts {
		copied := *p
		posts = append(posts, &copied)
	}
	slices.SortFunc(posts, func(a, b *models.Post) int { return cmp.Compare(a.ID, b.ID) })
	return posts
}
