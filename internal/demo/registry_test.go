package demo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryOpenGetClose(t *testing.T) {
	r := NewRegistry(zap.NewNop(), neutralGenerator(), Options{})

	a := r.Open("Ada")
	b := r.Open("")
	assert.NotEqual(t, a.ID(), b.ID())
	_, err := uuid.Parse(a.ID())
	assert.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	got, err := r.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, "User", b.Name())

	require.NoError(t, r.Close(a.ID()))
	_, err = r.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Close(a.ID()), ErrSessionNotFound)
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySweep(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(zap.NewNop(), neutralGenerator(), Options{TTL: time.Minute})
	r.now = func() time.Time { return t0 }

	r.Open("old")
	assert.Equal(t, 0, r.Sweep(t0.Add(30*time.Second)))
	assert.Equal(t, 1, r.Sweep(t0.Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepDisabled(t *testing.T) {
	r := NewRegistry(zap.NewNop(), neutralGenerator(), Options{})
	r.Open("forever")
	assert.Equal(t, 0, r.Sweep(time.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySweepKeepsBusySessions(t *testing.T) {
	r := NewRegistry(zap.NewNop(), neutralGenerator(), Options{TTL: time.Millisecond, Delay: time.Hour})
	s := r.Open("busy")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Generate(ctx)
	}()
	require.Eventually(t, s.InProgress, time.Second, time.Millisecond)

	assert.Equal(t, 0, r.Sweep(time.Now().Add(time.Hour)))

	cancel()
	<-done
	assert.Equal(t, 1, r.Sweep(time.Now().Add(time.Hour)))
}

func TestRegistryRun(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(zap.NewNop(), neutralGenerator(), Options{TTL: time.Minute})
	r.now = func() time.Time { return t0 }
	r.Open("expiring")
	r.now = func() time.Time { return t0.Add(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
