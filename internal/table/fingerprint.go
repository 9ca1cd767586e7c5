package table

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/unicode/norm"
)

// hashFn is swappable in tests.
var hashFn func([]byte) uint64 = xxh3.Hash

// RowHashes returns one hash per row. Rows are canonicalized first: cells
// are visited in column-name order, numbers render in their shortest form
// (so 7 and 7.0 agree), dates render as YYYY-MM-DD and strings are NFC
// normalized. The hashes are therefore independent of column order and of
// which engine inferred int vs float for a column.
func RowHashes(t Table) []uint64 {
	order := make([]int, len(t.Columns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Columns[order[a]].Name < t.Columns[order[b]].Name
	})

	out := make([]uint64, len(t.Rows))
	buf := make([]byte, 0, 256)
	for i, r := range t.Rows {
		buf = buf[:0]
		for _, ix := range order {
			buf = append(buf, t.Columns[ix].Name...)
			buf = append(buf, 0x1f)
			buf = appendCanonical(buf, r[ix])
			buf = append(buf, 0x1e)
		}
		out[i] = hashFn(buf)
	}
	return out
}

// SameRows reports whether a and b hold the same multiset of rows, ignoring
// column order and row order.
func SameRows(a, b Table) bool {
	if a.Len() != b.Len() || len(a.Columns) != len(b.Columns) {
		return false
	}
	ha, hb := RowHashes(a), RowHashes(b)
	counts := make(map[uint64]int, len(ha))
	for _, h := range ha {
		counts[h]++
	}
	for _, h := range hb {
		counts[h]--
		if counts[h] < 0 {
			return false
		}
	}
	return true
}

func appendCanonical(b []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(b, 0x00)
	case string:
		// One engine may read True/False as text where the other infers a
		// boolean.
		if strings.EqualFold(x, "true") || strings.EqualFold(x, "false") {
			return append(b, strings.ToLower(x)...)
		}
		return norm.NFC.AppendString(b, x)
	case bool:
		return strconv.AppendBool(b, x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.AppendFormat(b, "2006-01-02")
		}
		return x.UTC().AppendFormat(b, time.RFC3339Nano)
	}
	if f, ok := AsFloat(v); ok {
		if math.IsNaN(f) {
			return append(b, 0x00)
		}
		return strconv.AppendFloat(b, f, 'g', -1, 64)
	}
	return append(b, []byte(stringify(v))...)
}
