package repositories

import (
	"context"
	"fmt"

	"blogdesk/app/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, COALESCE(name, '') AS name, email,
	COALESCE(about_author, '') AS about_author, date_added,
	COALESCE(profile_pic, '') AS profile_pic, COALESCE(password_hash, '') AS password_hash`

// SQLUserRepository implements UserRepository against the users table
type SQLUserRepository struct {
	tx *sqlx.Tx
}

func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	q := r.tx.Rebind(`INSERT INTO users
		(username, name, email, about_author, date_added, profile_pic, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := r.tx.QueryRowxContext(ctx, q,
		user.Username, nullIfEmpty(user.Name), user.Email, nullIfEmpty(user.AboutAuthor),
		user.DateAdded, nullIfEmpty(user.ProfilePic), user.PasswordHash,
	).Scan(&user.ID)
	return translateError(err)
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	q := r.tx.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := r.tx.GetContext(ctx, &user, q, id); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *SQLUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	q := r.tx.Rebind(`SELECT ` + userColumns + ` FROM users
		WHERE username = ? OR email = ? ORDER BY id LIMIT 1`)
	if err := r.tx.GetContext(ctx, &user, q, username, email); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *SQLUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	if err := r.tx.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *SQLUserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.tx.ExecContext(ctx, r.tx.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return translateError(err)
	}
	return expectOneRow(res)
}
