package clickhouse

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Conn is the part of the ClickHouse driver the repositories use.
type Conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	PrepareBatch(ctx context.Context, query string) (Batch, error)
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type Row interface {
	Scan(dest ...any) error
	Err() error
}

type Batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

type driverConn struct {
	conn driver.Conn
}

// WrapConn adapts a driver connection to Conn.
func WrapConn(conn driver.Conn) Conn {
	return &driverConn{conn: conn}
}

func (d *driverConn) Exec(ctx context.Context, query string, args ...any) error {
	return d.conn.Exec(ctx, query, args...)
}

func (d *driverConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *driverConn) QueryRow(ctx context.Context, query string, args ...any) Row {
	return d.conn.QueryRow(ctx, query, args...)
}

func (d *driverConn) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	batch, err := d.conn.PrepareBatch(ctx, query)
	if err != nil {
		return nil, err
	}
	return batch, nil
}
