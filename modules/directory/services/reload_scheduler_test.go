package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(ctx context.Context) error {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	return r.err
}

func TestNewReloadScheduler_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	_, err := NewReloadScheduler("every tuesday", &countingReloader{}, 0, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reload schedule")
}

func TestReloadScheduler_Next(t *testing.T) {
	t.Parallel()

	s, err := NewReloadScheduler("0 3 * * *", &countingReloader{}, time.Minute, discardLogger())
	require.NoError(t, err)

	from := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC), s.Next(from))
}

func TestReloadScheduler_RunAppliesTimeoutAndSwallowsErrors(t *testing.T) {
	t.Parallel()

	target := &countingReloader{err: errors.New("source offline")}
	s, err := NewReloadScheduler("@hourly", target, time.Second, discardLogger())
	require.NoError(t, err)

	s.run()
	s.run()
	assert.Equal(t, int32(2), target.calls.Load())
}

func TestReloadScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s, err := NewReloadScheduler("@every 1s", &countingReloader{}, time.Second, discardLogger())
	require.NoError(t, err)

	target := s.target.(*countingReloader)
	s.Start()
	require.Eventually(t, func() bool { return target.calls.Load() > 0 }, 5*time.Second, 5*time.Millisecond)
	s.Stop()
}
