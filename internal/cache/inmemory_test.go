package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	key := GenerateKey(PrefixPlan, "workshop", "wks_1")
	c.Set(ctx, key, []string{"plan_1"}, DefaultExpiration)

	got, found := c.Get(ctx, key)
	assert.True(t, found)
	assert.Equal(t, []string{"plan_1"}, got)

	c.Delete(ctx, key)
	_, found = c.Get(ctx, key)
	assert.False(t, found)
}
