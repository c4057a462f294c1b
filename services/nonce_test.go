package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNonceGeneratorStrictlyIncreasing(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	generator := newNonceGenerator(func() time.Time { return frozen })

	assert.Equal(t, int64(1_700_000_000_000), generator.Next())
	assert.Equal(t, int64(1_700_000_000_001), generator.Next())

	frozen = frozen.Add(-time.Second)
	assert.Equal(t, int64(1_700_000_000_002), generator.Next())

	frozen = time.UnixMilli(1_700_000_010_000)
	assert.Equal(t, int64(1_700_000_010_000), generator.Next())
}
