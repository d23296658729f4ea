package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix = "user:"
	PostKeyPrefix = "post:"

	// Unique index prefixes; the value is the owning user's key
	UsernameIndexPrefix = "idx:user:username:"
	EmailIndexPrefix    = "idx:user:email:"

	// Sequence keys for auto-incrementing IDs
	UserSeqKey = "seq:user"
	PostSeqKey = "seq:post"
)

// entityKey pads ids so badger's byte ordering matches numeric ordering.
func entityKey(prefix string, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, id))
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, fmt.Errorf("failed to get sequence: %w", err)
	} else {
		err = item.Value(func(val []byte) error {
			id, err = strconv.Atoi(string(val))
			if err != nil {
				return fmt.Errorf("failed to parse sequence: %w", err)
			}
			id++
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	// Update the sequence
	err = txn.Set([]byte(seqKey), []byte(strconv.Itoa(id)))
	if err != nil {
		return 0, fmt.Errorf("failed to update sequence: %w", err)
	}

	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so term matches literally; '\' is the
// escape character in every query that uses it.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
