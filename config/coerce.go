package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Coercion converts a raw source value into a setting's canonical type.
// Values read from environment variables are always strings, while overlay
// values may already be parsed by YAML into native types, so a Coercion must
// accept both. It is applied on every read, to every source, including
// explicit values stored with Set.
type Coercion func(raw any) (any, error)

// String coerces any value to a string. Strings pass through unchanged;
// everything else is formatted with %v. It never fails.
func String(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", v), nil
}

// Int coerces numeric values and numeric strings to an int.
func Int(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("%v overflows int", n)
		}
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return nil, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as int", n)
		}
		return i, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to int", v)
	}
}

// Float coerces numeric values and numeric strings to a float64.
func Float(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as float", n)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to float", v)
	}
}

// PathList coerces a setting holding an ordered list of filesystem paths.
// An already-parsed sequence passes through unchanged (idempotent); a string
// is split on the platform path-list delimiter (':' on Unix, ';' on
// Windows). No escaping or quoting is supported.
func PathList(v any) (any, error) {
	return splitList(v, string(os.PathListSeparator))
}

// SpaceList coerces a setting holding an ordered list of names. An
// already-parsed sequence passes through unchanged (idempotent); a string is
// split on single spaces. No escaping or quoting is supported.
func SpaceList(v any) (any, error) {
	return splitList(v, " ")
}

func splitList(v any, sep string) (any, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			es, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("list element %d is %T, not a string", i, e)
			}
			out[i] = es
		}
		return out, nil
	case string:
		return strings.Split(s, sep), nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to a string list", v)
	}
}

// Bool returns a Coercion that interprets strings semantically instead of by
// length or emptiness:
//
//	"1", "True", "true"   -> true
//	"0", "False", "false" -> false
//	""                    -> def
//
// Any other string is a hard error, never a truthiness guess. Booleans pass
// through unchanged and numbers map by non-zeroness; other types are
// rejected.
func Bool(def bool) Coercion {
	return func(v any) (any, error) {
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch b {
			case "":
				return def, nil
			case "1", "True", "true":
				return true, nil
			case "0", "False", "false":
				return false, nil
			default:
				return nil, fmt.Errorf("string %q will not be interpreted as bool, use \"true\"/\"false\"", b)
			}
		case int:
			return b != 0, nil
		case int64:
			return b != 0, nil
		case uint64:
			return b != 0, nil
		case float64:
			return b != 0, nil
		case nil:
			return false, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to bool", v)
		}
	}
}
