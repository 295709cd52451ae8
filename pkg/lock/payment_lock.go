package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if this locker still owns it.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

// PaymentLocker serializes concurrent distribution of the same scheduled
// payment with a redis SETNX lock. It is a fast-path optimization only; the
// unique constraints on the ledger tables remain the safety boundary, so a
// redis outage degrades to constraint-guarded processing instead of failing.
type PaymentLocker struct {
	client     *redis.Client
	expiration time.Duration
}

func NewPaymentLocker(client *redis.Client, expiration time.Duration) *PaymentLocker {
	if expiration <= 0 {
		expiration = 60 * time.Second
	}
	return &PaymentLocker{client: client, expiration: expiration}
}

// TryLock attempts to take the per-payment lock without blocking. On success
// it returns acquired=true and a release func.
func (l *PaymentLocker) TryLock(ctx context.Context, paymentID uint) (bool, func(), error) {
	key := fmt.Sprintf("lock:payment:%d", paymentID)
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, key, token, l.expiration).Result()
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}
	release := func() {
		// Lua keeps check-and-delete atomic so an expired lock reacquired by
		// another invocation is never deleted from here.
		_ = l.client.Eval(context.Background(), releaseScript, []string{key}, token).Err()
	}
	return true, release, nil
}
