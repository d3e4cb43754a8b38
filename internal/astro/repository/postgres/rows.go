package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Helpers converting values returned by pgx.RowToMap into domain types.

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func asTimePtr(v any) *time.Time {
	t, ok := v.(time.Time)
	if !ok {
		return nil
	}
	return &t
}

func asDecimal(v any) decimal.Decimal {
	d, err := decimal.NewFromString(asString(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}
