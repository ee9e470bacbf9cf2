package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.DatabaseDSN = filepath.Join(t.TempDir(), "bank.db")
	c.LogLevel = "error"
	return c
}

func TestNewApp_RunAndStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, testConfig(t))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}

func TestNewApp_UnknownHashScheme(t *testing.T) {
	c := testConfig(t)
	c.HashScheme = "md5"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_BadDriver(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDriver = "oracle"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}
