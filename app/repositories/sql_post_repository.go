package repositories

import (
	"context"
	"fmt"
	"strings"

	"blogdesk/app/models"

	"github.com/jmoiron/sqlx"
)

const postColumns = `id, title, COALESCE(slug, '') AS slug, COALESCE(content, '') AS content, created`

// SQLPostRepository implements PostRepository against the blog_post table
type SQLPostRepository struct {
	tx *sqlx.Tx
}

func (r *SQLPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	q := r.tx.Rebind(`INSERT INTO blog_post (title, slug, content, created)
		VALUES (?, ?, ?, ?) RETURNING id`)
	err := r.tx.QueryRowxContext(ctx, q, post.Title, post.Slug, post.Content, post.Created).Scan(&post.ID)
	return translateError(err)
}

func (r *SQLPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	q := r.tx.Rebind(`SELECT ` + postColumns + ` FROM blog_post WHERE id = ?`)
	if err := r.tx.GetContext(ctx, &post, q, id); err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

func (r *SQLPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := r.tx.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM blog_post ORDER BY id`); err != nil {
		return nil, translateError(err)
	}
	return posts, nil
}

func (r *SQLPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	q := r.tx.Rebind(`UPDATE blog_post SET title = ?, slug = ?, content = ? WHERE id = ?`)
	res, err := r.tx.ExecContext(ctx, q, post.Title, post.Slug, post.Content, post.ID)
	if err != nil {
		return translateError(err)
	}
	return expectOneRow(res)
}

func (r *SQLPostRepository) Delete(ctx context.Context, id int) error {
	res, err := r.tx.ExecContext(ctx, r.tx.Rebind(`DELETE FROM blog_post WHERE id = ?`), id)
	if err != nil {
		return translateError(err)
	}
	return expectOneRow(res)
}

// Search folds case with lower(), which OpenSQL replaces on sqlite with
// Go's Unicode mapping. Titles sort bytewise on every driver.
func (r *SQLPostRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	order := "title"
	if r.tx.DriverName() == DriverPostgres {
		order = `title COLLATE "C"`
	}
	q := r.tx.Rebind(`SELECT ` + postColumns + ` FROM blog_post
		WHERE LOWER(title) LIKE ? ESCAPE '\' ORDER BY ` + order + `, id`)
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	posts := []*models.Post{}
	if err := r.tx.SelectContext(ctx, &posts, q, pattern); err != nil {
		return nil, translateError(err)
	}
	return posts, nil
}
