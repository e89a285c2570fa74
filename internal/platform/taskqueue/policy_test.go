package taskqueue

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotificationPolicy_Schedule(t *testing.T) {
	want := []time.Duration{10 * time.Second, time.Minute, 5 * time.Minute}

	for attempt, d := range want {
		got, ok := NotificationPolicy.Next(attempt)
		assert.True(t, ok, "attempt %d", attempt)
		assert.Equal(t, d, got, "attempt %d", attempt)
	}

	_, ok := NotificationPolicy.Next(3)
	assert.False(t, ok, "fourth failure must abandon")
}

func TestNoRetry(t *testing.T) {
	_, ok := NoRetry.Next(0)
	assert.False(t, ok)
}

func TestSchedule_RepeatsLastDelay(t *testing.T) {
	b := Schedule(time.Second, 2*time.Second)
	assert.Equal(t, time.Second, b(0))
	assert.Equal(t, 2*time.Second, b(2))
	assert.Equal(t, 2*time.Second, b(9))
	assert.Equal(t, time.Duration(0), Schedule()(1))
}

func TestPermanent(t *testing.T) {
	base := errors.New("bad payload")
	err := fmt.Errorf("handler: %w", Permanent(base))

	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}
