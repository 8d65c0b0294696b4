package hbaseutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/challenai/hbaseutils/client"
	"github.com/challenai/hbaseutils/logger"
)

func TestDB_DriverErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset by peer")

	tests := map[string]struct {
		mockSetup func(m *client.MockClient)
		call      func(db *DB) error
		kind      error
	}{
		"put failure is a write error": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().Put(gomock.Any(), "t1", gomock.Any()).Return(boom)
			},
			call: func(db *DB) error {
				return db.Add(ctx, "t1", "row1", "cf1", map[string]string{"name": "bob"})
			},
			kind: ErrWrite,
		},
		"get failure is a read error": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().Get(gomock.Any(), "t1", gomock.Any()).Return(nil, boom)
			},
			call: func(db *DB) error {
				entries, err := db.GetResultByTableAndRowKey(ctx, "t1", "row1")
				if entries == nil || len(entries) != 0 {
					return fmt.Errorf("expected empty entries, got %v", entries)
				}
				return err
			},
			kind: ErrRead,
		},
		"delete failure is a delete error": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().Delete(gomock.Any(), "t1", []byte("row1")).Return(boom)
			},
			call: func(db *DB) error { return db.Delete(ctx, "t1", "row1") },
			kind: ErrDelete,
		},
		"missing table reported by the driver": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().Delete(gomock.Any(), "t9", gomock.Any()).Return(errors.Join(client.ErrTableNotFound, boom))
			},
			call: func(db *DB) error { return db.Delete(ctx, "t9", "row1") },
			kind: ErrTableNotFound,
		},
		"table lookup failure is a connection error": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().TableExists(gomock.Any(), "t1").Return(false, boom)
			},
			call: func(db *DB) error {
				_, err := db.Table(ctx, "t1")
				return err
			},
			kind: ErrConnection,
		},
		"scan open failure": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().Scan(gomock.Any(), "t1", gomock.Any()).Return(nil, boom)
			},
			call: func(db *DB) error {
				_, err := db.Scan(ctx, "t1", &Scan{})
				return err
			},
			kind: ErrRead,
		},
		"close failure": {
			mockSetup: func(m *client.MockClient) {
				m.EXPECT().Close().Return(boom)
			},
			call: func(db *DB) error { return db.Close() },
			kind: ErrConnection,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := client.NewMockClient(ctrl)
			tc.mockSetup(mockClient)

			err := tc.call(NewDB(mockClient, WithLogger(logger.Nop())))
			req.Error(err)
			req.True(errors.Is(err, tc.kind), "got %v", err)
			req.True(errors.Is(err, boom))
		})
	}
}

func TestDB_AddSendsOneBatchedPut(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := client.NewMockClient(ctrl)
	mockClient.EXPECT().
		Put(gomock.Any(), "ns:t1", &client.Put{
			Row: []byte("row1"),
			Values: map[string]map[string][]byte{
				"cf1": {"name": []byte("bob"), "city": []byte("Oslo")},
			},
		}).
		Return(nil).
		Times(1)

	db := NewDB(mockClient, WithLogger(logger.Nop()))
	req.NoError(db.Add(context.Background(), "ns:t1", "row1", "cf1", map[string]string{"name": "bob", "city": "Oslo"}))
}

func TestDB_ScanStopsOnScannerError(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner := client.NewMockScanner(ctrl)
	gomock.InOrder(
		scanner.EXPECT().Next().Return([]*client.Cell{{Row: []byte("a"), Family: []byte("f"), Qualifier: []byte("q"), Value: []byte("1")}}, nil),
		scanner.EXPECT().Next().Return(nil, errors.New("scanner expired")),
	)
	scanner.EXPECT().Close().Return(nil)

	mockClient := client.NewMockClient(ctrl)
	mockClient.EXPECT().
		Scan(gomock.Any(), "t1", &client.Scan{
			StartRow:  []byte("a"),
			StopRow:   []byte("b"),
			BatchSize: 10,
		}).
		Return(scanner, nil)

	db := NewDB(mockClient, WithLogger(logger.Nop()), WithScanBatchSize(10))
	_, err := db.Scan(context.Background(), "t1", &Scan{Prefix: "a"})
	req.True(errors.Is(err, ErrRead))
	req.Contains(err.Error(), "scanner expired")
}

func TestDB_ScanSkipsEmptyRowsAndHonoursLimit(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cell := func(row string) []*client.Cell {
		return []*client.Cell{{Row: []byte(row), Family: []byte("f"), Qualifier: []byte("q"), Timestamp: 7, Value: []byte(row)}}
	}
	scanner := client.NewMockScanner(ctrl)
	gomock.InOrder(
		scanner.EXPECT().Next().Return(cell("a"), nil),
		scanner.EXPECT().Next().Return(nil, nil),
		scanner.EXPECT().Next().Return(cell("c"), nil),
	)
	scanner.EXPECT().Close().Return(nil)

	mockClient := client.NewMockClient(ctrl)
	mockClient.EXPECT().Scan(gomock.Any(), "t1", gomock.Any()).Return(scanner, nil)

	db := NewDB(mockClient, WithLogger(logger.Nop()))
	results, err := db.Scan(context.Background(), "t1", &Scan{Limit: 2})
	req.NoError(err)
	req.Len(results, 2)
	req.Equal([]map[string]string{{"a:<f:q>:7": "a"}, {"c:<f:q>:7": "c"}}, ParseResults(results))

	// io.EOF ends the scan without error
	scanner2 := client.NewMockScanner(ctrl)
	scanner2.EXPECT().Next().Return(nil, io.EOF)
	scanner2.EXPECT().Close().Return(nil)
	mockClient.EXPECT().Scan(gomock.Any(), "t1", gomock.Any()).Return(scanner2, nil)

	results, err = db.Scan(context.Background(), "t1", &Scan{})
	req.NoError(err)
	req.Empty(results)
}
