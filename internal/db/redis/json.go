package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/calder-cloud/strindex/internal/db"
)

// JSONSetNX stores a JSON document only if the key does not exist yet.
// JSON.SET ... NX replies nil when the key was already present, which is
// the storage-level uniqueness constraint: of two racing writers exactly
// one sees OK and the other sees ErrKeyExists.
func (s *Store) JSONSetNX(ctx context.Context, key, path string, data []byte) error {
	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data), "NX").Build()
	if _, err := s.do(ctx, cmd).ToString(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// JSONGet retrieves a JSON document by key and optional paths.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	args := make([]string, len(paths))
	copy(args, paths)

	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// Del removes a key and returns the number of keys removed.
func (s *Store) Del(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Del().Key(key).Build()
	removed, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpDel, Err: err}
	}
	return removed, nil
}
