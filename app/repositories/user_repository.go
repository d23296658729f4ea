package repositories

import (
	"context"
	"fmt"

	"blogdesk/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository inside one badger
// transaction. Username and email uniqueness is kept with index keys written
// in the same transaction as the user record.
type BadgerUserRepository struct {
	txn *badger.Txn
}

// storedUser persists the hash, which models.User keeps out of JSON.
type storedUser struct {
	*models.User
	PasswordHash string `json:"password_hash"`
}

// Create creates a new user
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	for _, idx := range userIndexKeys(user) {
		_, err := r.txn.Get(idx)
		if err == nil {
			return ErrConflict
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
	}

	id, err := getNextID(r.txn, UserSeqKey)
	if err != nil {
		return err
	}
	user.ID = id

	data, err := marshalEntity(storedUser{User: user, PasswordHash: user.PasswordHash})
	if err != nil {
		return err
	}

	key := entityKey(UserKeyPrefix, user.ID)
	if err := r.txn.Set(key, data); err != nil {
		return err
	}
	for _, idx := range userIndexKeys(user) {
		if err := r.txn.Set(idx, key); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.get(entityKey(UserKeyPrefix, id))
}

func (r *BadgerUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	probe := &models.User{Username: username, Email: email}
	for _, idx := range userIndexKeys(probe) {
		item, err := r.txn.Get(idx)
		if err == badger.ErrKeyNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		return r.get(key)
	}
	return nil, ErrNotFound
}

// List retrieves every user in id order
func (r *BadgerUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	it := r.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := []byte(UserKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		user := &models.User{}
		err := it.Item().Value(func(val []byte) error {
			return decodeUser(val, user)
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Delete deletes a user and releases its username and email
func (r *BadgerUserRepository) Delete(ctx context.Context, id int) error {
	key := entityKey(UserKeyPrefix, id)
	user, err := r.get(key)
	if err != nil {
		return err
	}
	for _, idx := range userIndexKeys(user) {
		if err := r.txn.Delete(idx); err != nil {
			return err
		}
	}
	return r.txn.Delete(key)
}

func (r *BadgerUserRepository) get(key []byte) (*models.User, error) {
	item, err := r.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	if err := item.Value(func(val []byte) error {
		return decodeUser(val, user)
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func decodeUser(val []byte, user *models.User) error {
	stored := storedUser{User: user}
	if err := unmarshalEntity(val, &stored); err != nil {
		return err
	}
	user.PasswordHash = stored.PasswordHash
	return nil
}

func userIndexKeys(u *models.User) [][]byte {
	return [][]byte{
		[]byte(UsernameIndexPrefix + u.Username),
		[]byte(EmailIndexPrefix + u.Email),
	}
}
