package crawler

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocolly/colly/v2/storage"
	bolt "go.etcd.io/bbolt"
)

var visitBucket = []byte("visits")

// BoltStorage persists colly's visit and cookie state so interrupted
// crawls do not refetch pages.
type BoltStorage struct {
	Path string
	db   *bolt.DB
	mu   sync.RWMutex
}

// Init opens the database and ensures the bucket exists. Colly calls it
// from SetStorage; repeated calls reuse the open handle, since a second
// bolt.Open on the same file would block on the file lock.
func (s *BoltStorage) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bolt.Open(s.Path, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open bolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(visitBucket)
		return err
	}); err != nil {
		db.Close()
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.db = db
	return nil
}

func (s *BoltStorage) Visited(requestID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(visitBucket).Put(visitKey(requestID), []byte("1"))
	})
}

func (s *BoltStorage) IsVisited(requestID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var visited bool
	err := s.db.View(func(tx *bolt.Tx) error {
		visited = tx.Bucket(visitBucket).Get(visitKey(requestID)) != nil
		return nil
	})
	return visited, err
}

func (s *BoltStorage) Cookies(u *url.URL) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cookies string
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(visitBucket).Get(cookieKey(u)); v != nil {
			cookies = string(v)
		}
		return nil
	})
	return cookies
}

func (s *BoltStorage) SetCookies(u *url.URL, cookies string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(visitBucket).Put(cookieKey(u), []byte(cookies))
	})
}

func (s *BoltStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func visitKey(requestID uint64) []byte {
	return []byte(fmt.Sprintf("v:%d", requestID))
}

func cookieKey(u *url.URL) []byte {
	return []byte(fmt.Sprintf("c:%s", u))
}

var _ storage.Storage = (*BoltStorage)(nil)
