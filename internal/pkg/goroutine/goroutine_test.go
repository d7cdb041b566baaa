package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRunsTasks(t *testing.T) {
	m := NewManager(4)

	var ran atomic.Int32
	for range 4 {
		m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	require.NoError(t, m.Wait())
	assert.Equal(t, int32(4), ran.Load())
}

func TestManagerCollectsErrors(t *testing.T) {
	m := NewManager(2)

	errBoom := errors.New("boom")
	m.Go(context.Background(), func(context.Context) error {
		return errBoom
	})

	err := m.Wait()
	assert.ErrorIs(t, err, errBoom)
}

func TestManagerClosedSkipsNewTasks(t *testing.T) {
	m := NewManager(2)
	require.NoError(t, m.Wait())

	var ran atomic.Int32
	m.Go(context.Background(), func(context.Context) error {
		ran.Add(1)
		return nil
	})

	require.NoError(t, m.Wait())
	assert.Equal(t, int32(0), ran.Load())
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), func(context.Context) error {
		panic("kaboom")
	})

	assert.NoError(t, m.Wait())
}
