package services

import (
	"sync"
	"time"
)

// nonceGenerator hands out millisecond nonces that never repeat or go backwards,
// even when two requests are signed within the same millisecond.
type nonceGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newNonceGenerator(now func() time.Time) *nonceGenerator {
	return &nonceGenerator{now: now}
}

func (generator *nonceGenerator) Next() int64 {
	generator.mu.Lock()
	defer generator.mu.Unlock()

	nonce := generator.now().UnixMilli()
	if nonce <= generator.last {
		nonce = generator.last + 1
	}
	generator.last = nonce

	return nonce
}
