package mapq

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kcmvp/mapq/latlng"
	"github.com/kcmvp/mapq/polyline"
	"github.com/samber/lo"
)

// ErrShapeMismatch is re-exported so callers working at the query level need
// not import latlng just to classify failures.
var ErrShapeMismatch = latlng.ErrShapeMismatch

// Func is a pure per-field serializer: it turns one loosely-typed value into
// its wire string. Every function in this package with this signature may be
// used as a Serializers entry.
type Func func(v any) (string, error)

// Serializers maps field names to the Func applied before generic encoding.
// A key is matched literally first; keys containing wildcards ('*' for any
// run, '?' for one character) act as patterns, so a single entry can cover
// families such as "*_time". Fields without an entry pass through untouched.
type Serializers map[string]Func

// ObjectToString renders an unordered-key object as "k:v" entries joined by
// "|", with keys sorted in byte order. Sorting is what makes the output
// independent of map iteration order; the signature downstream depends on a
// stable string. Pre-formatted strings pass through untouched.
func ObjectToString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return "", fmt.Errorf("%w: %T is not a string-keyed object", ErrShapeMismatch, v)
	}
	keys := lo.Map(rv.MapKeys(), func(k reflect.Value, _ int) string { return k.String() })
	sort.Strings(keys)
	parts := lo.Map(keys, func(k string, _ int) string {
		return k + ":" + stringify(rv.MapIndex(reflect.ValueOf(k)).Interface())
	})
	return strings.Join(parts, "|"), nil
}

// ToTimestamp renders a departure/arrival time. The literal "now" passes
// through, a time.Time becomes Unix seconds with sub-second precision
// dropped, and a bare number is assumed to be seconds already.
func ToTimestamp(v any) (string, error) {
	switch t := v.(type) {
	case string:
		if t == "now" {
			return t, nil
		}
		return "", fmt.Errorf("%w: %q is not a timestamp", ErrShapeMismatch, t)
	case time.Time:
		return strconv.FormatInt(t.Unix(), 10), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T is not a timestamp", ErrShapeMismatch, v)
	}
}

// LatLngArray binds a path codec into a Func so a coordinate-sequence field
// can live in a Serializers table. A nil codec always emits the plain form.
func LatLngArray(enc latlng.EncodeFunc) Func {
	return func(v any) (string, error) {
		return latlng.ArrayToString(v, enc)
	}
}

// DefaultSerializers is the table the surrounding geographic client installs
// for the standard web-service fields, with polyline.Encode as the path
// codec. Callers with bespoke fields build their own table from the same
// pieces.
func DefaultSerializers() Serializers {
	seq := LatLngArray(polyline.Encode)
	return Serializers{
		"origin":       latlng.ToString,
		"destination":  latlng.ToString,
		"location":     latlng.ToString,
		"latlng":       latlng.ToString,
		"bounds":       latlng.BoundsToString,
		"path":         seq,
		"waypoints":    seq,
		"origins":      seq,
		"destinations": seq,
		"locations":    seq,
		"components":   ObjectToString,
		"*_time":       ToTimestamp,
	}
}

// stringify is the native string coercion used everywhere a value reaches
// the wire: plain strconv for scalars, shortest round-trip form for floats.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
