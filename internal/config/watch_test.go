package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadFromDiskPublishesAndNotifies(t *testing.T) {
	path := writeConfig(t, "gateway:\n  port: 9001\nlog:\n  level: debug\n")

	got := make(chan *Config, 1)
	RegisterOnReload(func(c *Config) {
		select {
		case got <- c:
		default:
		}
	})

	reloadFromDisk(path)

	select {
	case c := <-got:
		assert.Equal(t, 9001, c.Gateway.Port)
		assert.Equal(t, "debug", c.Log.Level)
	default:
		t.Fatal("reload callback did not run")
	}
	require.NotNil(t, Get())
	assert.Equal(t, 9001, Get().Gateway.Port)
}

func TestReloadFromDiskKeepsConfigOnParseError(t *testing.T) {
	good := writeConfig(t, "gateway:\n  port: 9002\n")
	reloadFromDisk(good)

	bad := writeConfig(t, "chat:\n  replyDelay: banana\n")
	reloadFromDisk(bad)

	assert.Equal(t, 9002, Get().Gateway.Port)
}

func TestWatchReturnsWhenConfigMissing(t *testing.T) {
	t.Setenv("TELLER_HOME", t.TempDir())

	done := make(chan struct{})
	go func() {
		Watch(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return for a missing config file")
	}
}
