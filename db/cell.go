package db

import (
	"fmt"
	"strconv"
	"time"
)

const (
	NullCell   = "NULL"
	BinaryCell = "BINARY DATA"
)

// FormatCell converts a driver value into its display text.
// Raw bytes are never printed.
func FormatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return NullCell
	case []byte:
		return BinaryCell
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatRow converts a scanned row, one display string per column
func formatRow(values []any) []string {
	row := make([]string, len(values))
	for i, value := range values {
		row[i] = FormatCell(value)
	}
	return row
}
