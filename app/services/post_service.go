package services

import (
	"context"

	"blogdesk/app/forms"
	"blogdesk/app/models"
	"blogdesk/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	store repositories.Store
}

// NewPostService creates a new PostService
func NewPostService(store repositories.Store) *PostService {
	return &PostService{store: store}
}

// Create validates the form and stores a new post
func (s *PostService) Create(ctx context.Context, form *forms.PostForm) (*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	post := &models.Post{}
	form.Apply(post)
	err := s.store.Update(ctx, func(tx repositories.Tx) error {
		return tx.Posts().Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Get retrieves a post by ID
func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	var post *models.Post
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		var err error
		post, err = tx.Posts().GetByID(ctx, id)
		return err
	})
	return post, err
}

// List returns every post ordered by id
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		var err error
		posts, err = tx.Posts().List(ctx)
		return err
	})
	return posts, err
}

// Update applies the form to an existing post. A missing post is reported
// before the form is validated. Id and creation time never change.
func (s *PostService) Update(ctx context.Context, id int, form *forms.PostForm) (*models.Post, error) {
	var post *models.Post
	err := s.store.Update(ctx, func(tx repositories.Tx) error {
		var err error
		post, err = tx.Posts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := form.Validate(); err != nil {
			return err
		}
		form.Apply(post)
		return tx.Posts().Update(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post, returning repositories.ErrNotFound when absent
func (s *PostService) Delete(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(tx repositories.Tx) error {
		return tx.Posts().Delete(ctx, id)
	})
}

// Search validates the term and returns the posts whose title contains it.
func (s *PostService) Search(ctx context.Context, form *forms.SearchForm) ([]*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	var posts []*models.Post
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		var err error
		posts, err = tx.Posts().Search(ctx, form.Term)
		return err
	})
	return posts, err
}

// Summaries returns the JSON listing projection in id order
func (s *PostService) Summaries(ctx context.Context) ([]models.PostSummary, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.Summaries(posts), nil
}
