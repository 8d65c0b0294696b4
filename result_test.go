package hbaseutils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/challenai/hbaseutils/client"
)

func cellOf(family, qualifier string, ts int64, value string) *client.Cell {
	return &client.Cell{
		Row:       []byte("row1"),
		Family:    []byte(family),
		Qualifier: []byte(qualifier),
		Timestamp: ts,
		Value:     []byte(value),
	}
}

func TestParseResult(t *testing.T) {
	tests := map[string]struct {
		result *Result
		want   []map[string]string
	}{
		"nil result": {
			result: nil,
			want:   []map[string]string{},
		},
		"absent row": {
			result: newResult("row1", nil),
			want:   []map[string]string{},
		},
		"ordered by family, qualifier, newest first": {
			result: newResult("row1", []*client.Cell{
				cellOf("cf2", "a", 5, "x"),
				cellOf("cf1", "name", 10, "bob"),
				cellOf("cf1", "name", 20, "alice"),
				cellOf("cf1", "age", 10, "7"),
			}),
			want: []map[string]string{
				{"row1:<cf1:age>:10": "7"},
				{"row1:<cf1:name>:20": "alice"},
				{"row1:<cf1:name>:10": "bob"},
				{"row1:<cf2:a>:5": "x"},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got := ParseResult(tc.result)
			req.Equal(tc.want, got)
			req.Len(got, len(tc.want))
		})
	}
}

func TestParseResultInto_Appends(t *testing.T) {
	req := require.New(t)

	dst := []map[string]string{{"existing": "1"}}
	dst = ParseResultInto(newResult("row1", []*client.Cell{cellOf("f", "q", 1, "v")}), dst)
	req.Equal([]map[string]string{{"existing": "1"}, {"row1:<f:q>:1": "v"}}, dst)
}

func TestResult_MapAndLatest(t *testing.T) {
	req := require.New(t)

	r := newResult("row1", []*client.Cell{
		cellOf("cf1", "name", 10, "bob"),
		cellOf("cf1", "name", 20, "alice"),
		cellOf("cf2", "age", 3, "7"),
	})

	m := r.Map()
	req.Len(m, 2)
	req.Equal([]byte("bob"), m["cf1"]["name"][10])
	req.Equal([]byte("alice"), m["cf1"]["name"][20])
	req.Equal([]byte("7"), m["cf2"]["age"][3])

	v, ok := r.Latest("cf1", "name")
	req.True(ok)
	req.Equal([]byte("alice"), v)

	_, ok = r.Latest("cf1", "missing")
	req.False(ok)

	var nilResult *Result
	req.True(nilResult.Empty())
	req.Empty(nilResult.Map())
}

func TestWriteEntries(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	req.NoError(WriteEntries(&buf, []map[string]string{
		{"row1:<cf1:a>:1": "x"},
		{"row2:<cf1:b>:2": "y"},
	}))
	req.Equal("row1:<cf1:a>:1=x\nrow2:<cf1:b>:2=y\n", buf.String())
}

func TestEntryKey(t *testing.T) {
	require.Equal(t, "user:42:<info:email>:1700000000000", EntryKey("user:42", "info", "email", 1700000000000))
}
