package timeutils

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errBoom := errors.New("boom")
	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	tests := []struct {
		name          string
		failures      int
		expectedCalls int
		expectedErr   error
	}{
		{
			name:          "first attempt succeeds",
			failures:      0,
			expectedCalls: 1,
		},
		{
			name:          "succeeds after two failures",
			failures:      2,
			expectedCalls: 3,
		},
		{
			name:          "all attempts fail",
			failures:      10,
			expectedCalls: 3,
			expectedErr:   ErrAllAttemptsFailed,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			calls := 0
			res, err := Retry(
				context.Background(),
				delays,
				func(context.Context) (string, error) {
					calls++
					if calls <= test.failures {
						return "", errBoom
					}
					return "ok", nil
				},
				RetryOnError[string],
			)
			assert.Equal(t, test.expectedCalls, calls)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				assert.ErrorIs(t, err, errBoom)
				assert.Empty(t, res)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "ok", res)
		})
	}
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, []time.Duration{time.Second}, func(context.Context) (int, error) {
		calls++
		return 0, nil
	}, RetryOnError[int])

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, SleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := SleepCtx(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
