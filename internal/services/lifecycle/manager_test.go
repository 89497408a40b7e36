package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	m.Register("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	m.Register("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestShutdownCollectsHookErrors(t *testing.T) {
	m := New(time.Second, nil)

	boom := errors.New("boom")
	m.Register("ok", func(ctx context.Context) error { return nil })
	m.Register("broken", func(ctx context.Context) error { return boom })

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestShutdownRunsOnce(t *testing.T) {
	m := New(time.Second, nil)

	calls := 0
	m.Register("counted", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestRegisterAfterShutdownIsIgnored(t *testing.T) {
	m := New(time.Second, nil)
	require.NoError(t, m.Shutdown(context.Background()))

	m.Register("late", func(ctx context.Context) error {
		t.Fatal("late hook must not run")
		return nil
	})
	require.NoError(t, m.Shutdown(context.Background()))
}
