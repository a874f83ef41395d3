package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSweeperValidatesSchedule(t *testing.T) {
	_, err := NewSweeper("not a schedule", func(context.Context) int { return 0 })
	assert.Error(t, err)

	s, err := NewSweeper("*/5 * * * *", func(context.Context) int { return 0 })
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestSweeperRunInvokesFunc(t *testing.T) {
	ran := 0
	s, err := NewSweeper("@hourly", func(context.Context) int {
		ran++
		return 1
	})
	require.NoError(t, err)

	s.run()
	assert.Equal(t, 1, ran)
}
