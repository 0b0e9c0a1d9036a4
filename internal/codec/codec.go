package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

// Decode converts an inbound value (wire text or an adapter result) into the
// internal representation for format.
//
// Conversion per format:
//   - bool: the literal "true" is true; any other non-empty text is also
//     true and only empty text is false. Non-text values use their truthiness.
//   - float: decimal text parsed to float64
//   - integer family: base-10 text parsed to int64; floats are truncated
//   - string, data, tlv8: passed through as text (tlv8 is never decoded structurally)
//   - array, dictionary: JSON text decoded to []any or map[string]any
//
// Parameters:
//   - format: Declared value-kind of the target characteristic
//   - v: Inbound value; string and []byte are treated as wire text
//
// Returns:
//   - any: Converted value
//   - error: ErrConversion or ErrUnknownFormat, wrapped with detail
func Decode(format catalog.Format, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	switch {
	case format == catalog.FormatBool:
		if s, ok := v.(string); ok {
			if s == "true" {
				return true, nil
			}
			return len(s) > 0, nil
		}
		return truthy(v), nil

	case format == catalog.FormatFloat:
		return toFloat(v)

	case format.IsInteger():
		return toInt(v)

	case format == catalog.FormatString, format == catalog.FormatData, format == catalog.FormatTLV8:
		return text(v), nil

	case format == catalog.FormatArray:
		return decodeJSON[[]any](v)

	case format == catalog.FormatDictionary:
		return decodeJSON[map[string]any](v)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Encode converts an internal value into its outbound form for format.
//
// Booleans stay native bool; every other format is rendered as text.
// The adapter stage runs on the result before Text produces the payload.
//
// Parameters:
//   - format: Declared value-kind of the source characteristic
//   - v: Internal value
//
// Returns:
//   - any: bool for FormatBool, string otherwise
//   - error: ErrConversion or ErrUnknownFormat, wrapped with detail
func Encode(format catalog.Format, v any) (any, error) {
	switch {
	case format == catalog.FormatBool:
		if s, ok := v.(string); ok {
			return s == "true" || (s != "" && s != "false"), nil
		}
		return truthy(v), nil

	case format == catalog.FormatFloat:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return strconv.FormatFloat(f.(float64), 'f', -1, 64), nil

	case format.IsInteger():
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		return strconv.FormatInt(n.(int64), 10), nil

	case format == catalog.FormatString, format == catalog.FormatData, format == catalog.FormatTLV8:
		return text(v), nil

	case format == catalog.FormatArray, format == catalog.FormatDictionary:
		if s, ok := v.(string); ok {
			return s, nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConversion, err)
		}
		return string(data), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Text renders any value as a wire payload.
//
// Booleans become "true"/"false", numbers use the shortest decimal form,
// and slices or maps are encoded as JSON.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case []any, map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return Text(v)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case uint8:
		return x != 0
	case uint64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a decimal number", ErrConversion, x)
		}
		return f, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	}
	return nil, fmt.Errorf("%w: cannot convert %T to float", ErrConversion, v)
}

func toInt(v any) (any, error) {
	switch x := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a base-10 integer", ErrConversion, x)
		}
		return n, nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrConversion, x)
		}
		return int64(x), nil
	case float64:
		return int64(x), nil
	case float32:
		return int64(x), nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return nil, fmt.Errorf("%w: cannot convert %T to integer", ErrConversion, v)
}

func decodeJSON[T any](v any) (any, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: cannot decode %T as JSON", ErrConversion, v)
	}
	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	return out, nil
}
