package repositories

import (
	"bytes"
	"testing"

	"blogdesk/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetNextID(t *testing.T) {
	db := openMemoryBadger(t)

	t.Run("first ID", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			for want := 2; want <= 4; want++ {
				id, err := getNextID(txn, PostSeqKey)
				assert.NoError(t, err)
				assert.Equal(t, want, id)
			}
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequences are independent", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, UserSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("discarded transaction does not advance", func(t *testing.T) {
		txn := db.NewTransaction(true)
		_, err := getNextID(txn, UserSeqKey)
		require.NoError(t, err)
		txn.Discard()

		err = db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, UserSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 2, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("corrupt sequence", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			require.NoError(t, txn.Set([]byte("seq:broken"), []byte("x")))
			_, err := getNextID(txn, "seq:broken")
			assert.Error(t, err)
			return nil
		})
		assert.NoError(t, err)
	})
}

func TestEntityKeyOrdering(t *testing.T) {
	assert.Equal(t, "post:0000000007", string(entityKey(PostKeyPrefix, 7)))
	// byte order must follow numeric order for iteration
	assert.Equal(t, -1, bytes.Compare(entityKey(PostKeyPrefix, 9), entityKey(PostKeyPrefix, 10)))
	assert.Equal(t, -1, bytes.Compare(entityKey(UserKeyPrefix, 99), entityKey(UserKeyPrefix, 100)))
}

func TestMarshalEntity(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		post := &models.Post{ID: 1, Title: "Test Post", Content: "Test Content"}

		data, err := marshalEntity(post)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)

		var unmarshaled models.Post
		assert.NoError(t, unmarshalEntity(data, &unmarshaled))
		assert.Equal(t, post.ID, unmarshaled.ID)
		assert.Equal(t, post.Title, unmarshaled.Title)
		assert.Equal(t, post.Content, unmarshaled.Content)
	})

	t.Run("marshal invalid entity", func(t *testing.T) {
		invalidEntity := struct {
			Ch chan int
		}{
			Ch: make(chan int),
		}

		_, err := marshalEntity(invalidEntity)
		assert.Error(t, err)
	})

	t.Run("unmarshal invalid JSON", func(t *testing.T) {
		var post models.Post
		assert.Error(t, unmarshalEntity([]byte(`{"id":1,invalid json}`), &post))
	})

	t.Run("unmarshal into nil", func(t *testing.T) {
		assert.Error(t, unmarshalEntity([]byte(`{"id":1}`), nil))
	})
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}
