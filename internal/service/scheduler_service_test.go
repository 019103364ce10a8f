package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("07:45")
	require.NoError(t, err)
	assert.Equal(t, "0 45 7 * * *", spec)

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:cd", "1:2:3"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedulerRunsAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSchedulerService(time.UTC, nil)
	var runs atomic.Int32
	_, err := s.ScheduleInterval(time.Second, func() { runs.Add(1) })
	require.NoError(t, err)
	daily, err := s.ScheduleDaily("08:00", func() {})
	require.NoError(t, err)
	_, err = s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	assert.Equal(t, 2, s.Len())

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	assert.False(t, s.Next(daily).IsZero())
	s.Stop()
}

func TestSchedulerRecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSchedulerService(time.UTC, nil)
	var after atomic.Int32
	_, err := s.ScheduleInterval(time.Second, func() { panic("boom") })
	require.NoError(t, err)
	_, err = s.ScheduleInterval(time.Second, func() { after.Add(1) })
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return after.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}
