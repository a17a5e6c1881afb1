package numbers

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ExtractFloat converts common scalar types into float64. Hyperliquid
// encodes most numeric fields as strings on the wire.
func ExtractFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		if v == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(v, 64)
	case nil:
		return 0, fmt.Errorf("nil value")
	default:
		return 0, fmt.Errorf("unsupported float type %T", val)
	}
}

// FloatOrZero is ExtractFloat with failures collapsed to zero, matching the
// upstream payload convention where absent fields mean "no value".
func FloatOrZero(val any) float64 {
	f, err := ExtractFloat(val)
	if err != nil {
		return 0
	}
	return f
}
