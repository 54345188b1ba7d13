package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps payloads on the local filesystem. Download URLs point
// back at the API's /storage/download endpoint with a signed token.
type LocalStore struct {
	dir     string
	secret  []byte
	ttl     time.Duration
	baseURL string
}

func NewLocalStore(dir string, secret []byte, ttl time.Duration, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return &LocalStore{
		dir:     dir,
		secret:  secret,
		ttl:     ttl,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// pathForKey maps a storage key to a path under the store root, rejecting
// keys that could escape it.
func (s *LocalStore) pathForKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}

	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}

func (s *LocalStore) Save(ctx context.Context, key string, data []byte) error {
	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	return os.WriteFile(path, data, 0o660)
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	path, err := s.pathForKey(key)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}

func (s *LocalStore) SignedGetURL(ctx context.Context, key string) (string, error) {
	if _, err := s.pathForKey(key); err != nil {
		return "", err
	}

	token, err := GenerateDownloadToken(key, s.secret, s.ttl)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/storage/download?token=%s", s.baseURL, url.QueryEscape(token)), nil
}

// VerifyToken resolves a download token back to its storage key.
func (s *LocalStore) VerifyToken(token string) (string, error) {
	return ParseDownloadToken(token, s.secret)
}
