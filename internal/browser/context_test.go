// File: internal/browser/context_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineContextCancelsWithSecondary(t *testing.T) {
	primary := context.Background()
	secondary, cancelSecondary := context.WithCancel(context.Background())

	combined, cancel := combineContext(primary, secondary)
	defer cancel()

	require.NoError(t, combined.Err())
	cancelSecondary()

	select {
	case <-combined.Done():
	case <-time.After(time.Second):
		t.Fatal("combined context did not follow secondary cancellation")
	}
}

func TestCombineContextCancelIsIdempotent(t *testing.T) {
	combined, cancel := combineContext(context.Background(), context.Background())
	cancel()
	cancel()
	assert.Error(t, combined.Err())
}

func TestContainsAll(t *testing.T) {
	url := "https://sls4service.console.aliyun.com/next/project/x/dashboard/y"
	assert.True(t, containsAll(url, []string{"sls4service.console.aliyun.com", "dashboard"}))
	assert.False(t, containsAll(url, []string{"sls4service.console.aliyun.com", "missing"}))
	assert.True(t, containsAll(url, nil))
}
