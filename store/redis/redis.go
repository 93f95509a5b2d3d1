// Package redis is the Redis-backed StoreAdapter, grounded on the teacher's
// provider/redis package (same go-redis/v9 client, same Set/Get/Del shape)
// and on gaborage-go-bricks' cache/redis client for the SET-NX lock idiom
// and Lua-script-guarded release.
package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"
	st "github.com/swrcache/swrcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

const lockKeyPrefix = "sp/"

// releaseScript deletes the lock key only if its value still matches the
// token this process set, so a lock whose TTL already elapsed and was
// re-acquired by someone else is never deleted out from under them.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool
}

type Store struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ st.StoreAdapter = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Store{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// envelope is the on-the-wire record this adapter stores: two int64
// unix-nano timestamps followed by the opaque value payload produced by the
// engine's codec. The adapter never interprets the value bytes themselves.
const envelopeHeaderLen = 16

func encodeEnvelope(createdAt, hardExpiresAt time.Time, value []byte) []byte {
	buf := make([]byte, envelopeHeaderLen+len(value))
	binary.BigEndian.PutUint64(buf[0:8], uint64(createdAt.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(hardExpiresAt.UnixNano()))
	copy(buf[envelopeHeaderLen:], value)
	return buf
}

func decodeEnvelope(b []byte) (createdAt, hardExpiresAt time.Time, value []byte, err error) {
	if len(b) < envelopeHeaderLen {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("redis store: truncated envelope (%d bytes)", len(b))
	}
	createdAt = time.Unix(0, int64(binary.BigEndian.Uint64(b[0:8])))
	hardExpiresAt = time.Unix(0, int64(binary.BigEndian.Uint64(b[8:16])))
	value = b[envelopeHeaderLen:]
	return createdAt, hardExpiresAt, value, nil
}

func (s *Store) Read(ctx context.Context, keyString string, opts st.ReadOptions) (st.Item, error) {
	switch opts.Mode {
	case st.ModeSleep:
		return s.readSleep(ctx, keyString, opts)
	default:
		return s.readOnce(ctx, keyString, opts)
	}
}

func (s *Store) readOnce(ctx context.Context, keyString string, opts st.ReadOptions) (st.Item, error) {
	b, err := s.rdb.Get(ctx, keyString).Bytes()
	if errors.Is(err, goredis.Nil) {
		return st.Item{Hit: false}, nil
	}
	if err != nil {
		return st.Item{}, err
	}
	createdAt, hardExpiresAt, value, err := decodeEnvelope(b)
	if err != nil {
		// Corrupt envelope: self-heal by deleting, report as a miss.
		_ = s.rdb.Del(ctx, keyString).Err()
		return st.Item{Hit: false}, nil
	}

	item := st.Item{Hit: true, Value: value, CreatedAt: createdAt, HardExpiresAt: hardExpiresAt}
	if opts.Mode == st.ModePrecompute {
		softBoundary := hardExpiresAt.Add(-time.Duration(opts.SoftSec) * time.Second)
		if !time.Now().Before(softBoundary) {
			item.Hit = false
		}
	}
	return item, nil
}

func (s *Store) readSleep(ctx context.Context, keyString string, opts st.ReadOptions) (st.Item, error) {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		item, err := s.readOnce(ctx, keyString, st.ReadOptions{Mode: st.ModePrecompute, SoftSec: opts.SoftSec})
		if err != nil {
			return st.Item{}, err
		}
		if item.Hit {
			return item, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return st.Item{}, ctx.Err()
		case <-time.After(opts.PauseMs):
		}
	}
	return st.Item{Hit: false}, nil
}

func (s *Store) TryLock(ctx context.Context, keyString string, ttl time.Duration) (st.Lock, bool, error) {
	token := uuid.NewString()
	lockKey := lockKeyPrefix + keyString
	ok, err := s.rdb.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return &lock{rdb: s.rdb, key: lockKey, token: token}, true, nil
}

type lock struct {
	rdb   goredis.UniversalClient
	key   string
	token string
}

func (l *lock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err()
}

func (s *Store) Save(ctx context.Context, keyString string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0
	}
	now := time.Now()
	envelope := encodeEnvelope(now, now.Add(ttl), value)
	return s.rdb.Set(ctx, keyString, envelope, ttl).Err()
}

func (s *Store) DeleteExact(ctx context.Context, keyString string) error {
	return s.rdb.Del(ctx, keyString).Err()
}

// ClearByPrefix scans the keyspace for keyString prefix matches and deletes
// them in batches of up to 256 keys per multi-key DEL call (a batch can
// exceed 256 when one SCAN page overfills it). SCAN is used instead of KEYS to avoid blocking
// the server on large keyspaces.
func (s *Store) ClearByPrefix(ctx context.Context, prefixString string) error {
	const batchSize = 256
	var cursor uint64
	batch := make([]string, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, prefixString+"*", batchSize).Result()
		if err != nil {
			return err
		}
		batch = append(batch, keys...)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return flush()
}

func (s *Store) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
