package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

var _ Store = (*RedisStore)(nil)

// RedisStore maps a random session id (the cookie value) to a user id kept
// in Redis under "session:<sid>". Every Save refreshes the TTL.
type RedisStore struct {
	rdb  *redis.Client
	opts CookieOptions
}

func NewRedisStore(rdb *redis.Client, opts CookieOptions) *RedisStore {
	return &RedisStore{rdb: rdb, opts: opts}
}

// DialRedis creates and pings a Redis client with optional password auth.
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("session: pinging redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func key(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Load(r *http.Request) (int64, bool, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return 0, false, nil
	}
	if _, err := xid.FromString(c.Value); err != nil {
		return 0, false, fmt.Errorf("%w: malformed session id", ErrInvalid)
	}

	val, err := s.rdb.Get(r.Context(), key(c.Value)).Result()
	if errors.Is(err, redis.Nil) {
		// expired or never saved
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("session: reading %s: %w", c.Value, err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: stored value %q is not a user id", ErrInvalid, val)
	}
	return userID, true, nil
}

// Save reuses the browser's session id when it has a valid one and mints a
// new xid otherwise.
func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, userID int64) error {
	sid := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := xid.FromString(c.Value); err == nil {
			sid = c.Value
		}
	}
	if sid == "" {
		sid = xid.New().String()
	}

	if err := s.rdb.Set(r.Context(), key(sid), userID, s.opts.ttl()).Err(); err != nil {
		return fmt.Errorf("session: writing %s: %w", sid, err)
	}
	http.SetCookie(w, s.opts.cookie(sid))
	return nil
}
