// Package natsclient manages the NATS connection shared by the stream
// service and the KV seed store.
package natsclient

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/pkg/retry"
)

// Client wraps a NATS connection with its JetStream context.
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *slog.Logger
}

// Connect establishes a NATS connection from the configuration. The
// connection retries with backoff during startup; a server that stays
// unreachable surfaces a transient error.
func Connect(ctx context.Context, cfg config.NATS, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("vcore"),
		nats.MaxReconnects(cfg.MaxReconnects),
	}
	if cfg.ReconnectWait > 0 {
		opts = append(opts, nats.ReconnectWait(cfg.ReconnectWait))
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}
	if logger != nil {
		opts = append(opts, nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}))
		opts = append(opts, nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}))
	}

	conn, err := retry.DoWithResult(ctx, retry.Quick(), func() (*nats.Conn, error) {
		return nats.Connect(cfg.URL, opts...)
	})
	if err != nil {
		return nil, errors.WrapTransient(
			fmt.Errorf("connect %s: %w", cfg.URL, err),
			"Client", "Connect", "nats dial")
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapTransient(err, "Client", "Connect", "jetstream init")
	}

	if logger != nil {
		logger.Info("nats connected", "url", conn.ConnectedUrl())
	}
	return &Client{conn: conn, js: js, logger: logger}, nil
}

// Conn returns the underlying NATS connection.
func (c *Client) Conn() *nats.Conn {
	return c.conn
}

// IsConnected reports whether the connection is currently established.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// JetStream returns the JetStream context.
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// Close drains and closes the connection.
func (c *Client) Close(timeout time.Duration) {
	if c.conn == nil || c.conn.IsClosed() {
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.conn.Drain()
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		c.conn.Close()
	}
}
