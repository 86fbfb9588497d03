package mocks

import (
	"context"
	"fmt"
	"reflect"

	"github.com/product-analytics/infrastructure/persistence/clickhouse"
	"github.com/stretchr/testify/mock"
)

// MockClickHouseConn is a mock implementation of clickhouse.Conn
type MockClickHouseConn struct {
	mock.Mock
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string) (clickhouse.Batch, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(clickhouse.Batch), args.Error(1)
}

func (m *MockClickHouseConn) QueryRow(ctx context.Context, query string, queryArgs ...any) clickhouse.Row {
	args := m.Called(ctx, query, queryArgs)
	return args.Get(0).(clickhouse.Row)
}

func (m *MockClickHouseConn) Query(ctx context.Context, query string, queryArgs ...any) (clickhouse.Rows, error) {
	args := m.Called(ctx, query, queryArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(clickhouse.Rows), args.Error(1)
}

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, queryArgs ...any) error {
	args := m.Called(ctx, query, queryArgs)
	return args.Error(0)
}

// MockClickHouseBatch is a mock implementation of clickhouse.Batch
type MockClickHouseBatch struct {
	mock.Mock
}

func (m *MockClickHouseBatch) Append(v ...any) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *MockClickHouseBatch) Abort() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClickHouseBatch) Send() error {
	args := m.Called()
	return args.Error(0)
}

// MockClickHouseRow is a single-row result. Values are assigned to the scan
// destinations in order; ScanErr is returned instead when set.
type MockClickHouseRow struct {
	Values  []any
	ScanErr error
}

func (m *MockClickHouseRow) Scan(dest ...any) error {
	if m.ScanErr != nil {
		return m.ScanErr
	}
	return assign(m.Values, dest)
}

func (m *MockClickHouseRow) Err() error {
	return m.ScanErr
}

// MockClickHouseRows replays data row by row.
type MockClickHouseRows struct {
	currentIndex int
	data         [][]any
	columns      []string
	IterErr      error
	Closed       bool
}

func NewMockClickHouseRows(data [][]any, columns []string) *MockClickHouseRows {
	return &MockClickHouseRows{
		currentIndex: -1,
		data:         data,
		columns:      columns,
	}
}

func (m *MockClickHouseRows) Next() bool {
	m.currentIndex++
	return m.currentIndex < len(m.data)
}

func (m *MockClickHouseRows) Scan(dest ...any) error {
	if m.currentIndex >= len(m.data) {
		return nil
	}
	return assign(m.data[m.currentIndex], dest)
}

func (m *MockClickHouseRows) Close() error {
	m.Closed = true
	return nil
}

func (m *MockClickHouseRows) Err() error {
	return m.IterErr
}

func (m *MockClickHouseRows) Columns() []string {
	return m.columns
}

func assign(values []any, dest []any) error {
	for i, v := range values {
		if i >= len(dest) || v == nil {
			continue
		}
		target := reflect.ValueOf(dest[i]).Elem()
		value := reflect.ValueOf(v)
		if !value.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("column %d: cannot assign %s to %s", i, value.Type(), target.Type())
		}
		target.Set(value)
	}
	return nil
}
