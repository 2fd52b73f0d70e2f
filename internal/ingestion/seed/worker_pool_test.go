package seed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"yamdb/internal/logger"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 3, logger.Discard())
	pool.Start()

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		assert.True(t, pool.Submit(func(ctx context.Context) error {
			done.Add(1)
			return nil
		}))
	}

	assert.NoError(t, pool.Wait())
	assert.Equal(t, int32(20), done.Load())
}

func TestWorkerPool_FirstErrorCancels(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, logger.Discard())
	pool.Start()

	boom := errors.New("boom")
	var ran atomic.Int32
	pool.Submit(func(ctx context.Context) error { return boom })
	for i := 0; i < 5; i++ {
		pool.Submit(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	assert.ErrorIs(t, pool.Wait(), boom)
	assert.Equal(t, int32(0), ran.Load())
}
