package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so a
// run that outlived its TTL cannot release a lock taken by the next run.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireJobLock attempts to acquire the lock for the given job.
// Returns a release token when acquired, or "" if the lock is already held.
func (s *LockStore) AcquireJobLock(ctx context.Context, job string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, jobLockKey(job), token, ttl).Result()
	if err != nil {
		return "", err
	}

	if !ok {
		return "", nil
	}

	return token, nil
}

// ReleaseJobLock releases the lock for the given job if token still owns it.
func (s *LockStore) ReleaseJobLock(ctx context.Context, job, token string) error {
	return releaseScript.Run(ctx, s.client, []string{jobLockKey(job)}, token).Err()
}

func jobLockKey(job string) string {
	return fmt.Sprintf("lock:job:%s", job)
}
