// Package clickhouse wraps the native-protocol ClickHouse client used by
// the dataset importer. Lifecycle commands never touch this package; the
// container is managed exclusively through docker compose.
package clickhouse

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"chstack/internal/config"
	"chstack/internal/errors"
	"chstack/internal/logging"
)

const (
	dialTimeout  = 5 * time.Second
	pingInterval = 2 * time.Second
)

// Batch is the subset of the driver batch API the importer needs.
// The driver's own batch type satisfies it.
type Batch interface {
	Append(args ...any) error
	Send() error
	Abort() error
}

// Client is a thin wrapper around a native-protocol connection.
type Client struct {
	conn driver.Conn
	log  *logging.Logger
}

// options builds the driver options from the connection config.
func options(cfg config.ClickHouseConfig) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		DialTimeout: dialTimeout,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

// Connect opens a native-protocol connection. The returned client is not
// guaranteed reachable; call WaitReady before issuing queries against a
// freshly started container.
func Connect(cfg config.ClickHouseConfig, log *logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NopLogger()
	}

	conn, err := clickhouse.Open(options(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	return &Client{conn: conn, log: log}, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// WaitReady pings the server until it responds or the timeout elapses.
// A freshly started container accepts TCP connections before the query
// layer is up, so a single ping is not sufficient after bring-up.
func (c *Client) WaitReady(ctx context.Context, timeout time.Duration) error {
	return waitReady(ctx, c.conn.Ping, timeout, pingInterval, c.log)
}

func waitReady(ctx context.Context, ping func(context.Context) error, timeout, interval time.Duration, log *logging.Logger) error {
	if log == nil {
		log = logging.NopLogger()
	}

	deadline := time.Now().Add(timeout)
	var lastErr error

	for attempt := 1; ; attempt++ {
		lastErr = ping(ctx)
		if lastErr == nil {
			log.Debug("clickhouse ready", "attempts", attempt)
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().After(deadline) {
			break
		}

		log.Debug("clickhouse not ready yet", "attempt", attempt, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("%w after %s: %w", errors.ErrNotReady, timeout, lastErr)
}

// Exec runs a statement that returns no rows (DDL, DROP).
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

// TableExists reports whether a table exists in the connected database.
func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	var exists uint8
	row := c.conn.QueryRow(ctx, fmt.Sprintf("EXISTS TABLE %s", QuoteIdentifier(table)))
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists == 1, nil
}

// PrepareBatch starts a batched insert for the given INSERT statement.
func (c *Client) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	return c.conn.PrepareBatch(ctx, query)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.conn.Close()
}

// QuoteIdentifier wraps a table or column name in backticks so names
// derived from dataset file stems cannot splice into statements.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "") + "`"
}
