package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"blogdesk/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository inside one badger transaction
type BadgerPostRepository struct {
	txn *badger.Txn
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	// Get next ID
	id, err := getNextID(r.txn, PostSeqKey)
	if err != nil {
		return err
	}
	post.ID = id

	// Marshal post
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}

	// Save post
	return r.txn.Set(entityKey(PostKeyPrefix, post.ID), data)
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	item, err := r.txn.Get(entityKey(PostKeyPrefix, id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &post)
	}); err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post in id order
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.each(func(post *models.Post) {
		posts = append(posts, post)
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	key := entityKey(PostKeyPrefix, post.ID)

	// Verify post exists
	_, err := r.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// Marshal and save updated post
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return r.txn.Set(key, data)
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	key := entityKey(PostKeyPrefix, id)

	// Verify post exists
	_, err := r.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return r.txn.Delete(key)
}

// Search scans every post; badger has no secondary text index.
func (r *BadgerPostRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	needle := strings.ToLower(term)
	matches := []*models.Post{}
	err := r.each(func(post *models.Post) {
		if strings.Contains(strings.ToLower(post.Title), needle) {
			matches = append(matches, post)
		}
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(matches, func(a, b *models.Post) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})
	return matches, nil
}

func (r *BadgerPostRepository) each(fn func(post *models.Post)) error {
	it := r.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := []byte(PostKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var post models.Post
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal post: %w", err)
		}
		fn(&post)
	}
	return nil
}
