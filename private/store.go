package private

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/syndtr/goleveldb/leveldb"
)

var ErrTokenNotFound = errors.New("project token not found")

// TokenStore keeps project tokens on disk by name.
type TokenStore struct {
	db *leveldb.DB
}

func OpenTokenStore(p string) (*TokenStore, error) {
	if _, err := os.Stat(p); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err = os.MkdirAll(p, 0700); err != nil {
			return nil, err
		}
	}

	db, err := leveldb.OpenFile(p, nil)
	if err != nil {
		return nil, err
	}
	return &TokenStore{db}, nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}

func (s *TokenStore) List() ([]string, error) {
	var names []string
	iter := s.db.NewIterator(nil, nil)
	for iter.Next() {
		names = append(names, string(iter.Key()))
	}
	iter.Release()
	return names, iter.Error()
}

func (s *TokenStore) Get(name string) (ProjectToken, error) {
	value, err := s.db.Get([]byte(name), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return ProjectToken{}, fmt.Errorf("%s: %w", name, ErrTokenNotFound)
		}
		return ProjectToken{}, fmt.Errorf("reading token '%s': %w", name, err)
	}
	var res ProjectToken
	if err = json.Unmarshal(value, &res); err != nil {
		return ProjectToken{}, err
	}
	return res, nil
}

func (s *TokenStore) Put(name string, token ProjectToken) error {
	bytes, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err = s.db.Put([]byte(name), bytes, nil); err != nil {
		return fmt.Errorf("writing token '%s': %w", name, err)
	}
	return nil
}

func (s *TokenStore) Delete(name string) error {
	if err := s.db.Delete([]byte(name), nil); err != nil {
		return fmt.Errorf("deleting token '%s': %w", name, err)
	}
	return nil
}
