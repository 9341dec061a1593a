package imapclient

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stallingListener accepts TCP connections and never speaks, simulating an
// unresponsive IMAP server.
func stallingListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				<-done
				_ = c.Close()
			}(conn)
		}
	}()
	return ln
}

func TestPingHonorsContextDeadline(t *testing.T) {
	ln := stallingListener(t)
	svc := NewService(ln.Addr().String(), "user", "pass", "INBOX")

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := svc.Ping(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second,
		"ping against a stalled server must give up at the context deadline")
}

func TestFetchSinceHonorsContextDeadline(t *testing.T) {
	ln := stallingListener(t)
	svc := NewService(ln.Addr().String(), "user", "pass", "INBOX")

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.FetchSince(ctx, time.Now().AddDate(0, 0, -7))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
