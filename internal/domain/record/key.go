package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-ingest/internal/domain/errs"
)

const (
	timeLayout      = "2006-01-02 15:04:05"
	timeMicroLayout = "2006-01-02 15:04:05.000000"
	tupleSeparator  = "\x1f"
)

// Key derives the composite key of a row: the formatted key column values
// concatenated in order with no separator. Persisted rows were keyed the
// same way, so the format must never change.
func Key(r Record, keyColumns []string) (string, error) {
	if len(keyColumns) == 0 {
		return "", fmt.Errorf("%w: no key columns given", errs.ErrKeyColumnMissing)
	}
	var b strings.Builder
	for _, c := range keyColumns {
		v, ok := r[c]
		if !ok {
			return "", fmt.Errorf("%w: %q", errs.ErrKeyColumnMissing, c)
		}
		b.WriteString(FormatValue(v))
	}
	return b.String(), nil
}

// Tuple renders the key column values with a separator so that two rows
// sharing a Key can be told apart.
func Tuple(r Record, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, c := range keyColumns {
		parts[i] = FormatValue(r[c])
	}
	return strings.Join(parts, tupleSeparator)
}

// FormatValue converts a column value to its stable key representation.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case time.Time:
		if t.Nanosecond() != 0 {
			return t.Format(timeMicroLayout)
		}
		return t.Format(timeLayout)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat renders the shortest round-trip decimal, keeping a ".0" on
// integral values and switching to exponent form for very small or large
// magnitudes.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
