// Package latlng converts the loosely-typed coordinate representations a
// caller may supply ("lat,lng" strings, ordered pairs, short-form and
// long-form objects) into a canonical value and renders them as wire strings.
package latlng

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrShapeMismatch reports a value that matches none of the supported
	// coordinate shapes. It signals a programmer error, never a transient
	// condition, so callers must not retry.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// LatLng is the canonical coordinate pair. Latitude always precedes
// longitude, both in the struct and in every serialized form.
type LatLng struct {
	Lat float64
	Lng float64
}

// String renders the pair as "lat,lng" using the shortest decimal
// representation that round-trips, matching native number stringification.
func (l LatLng) String() string {
	return formatFloat(l.Lat) + "," + formatFloat(l.Lng)
}

// Bounds is a rectangle described by its southwest and northeast corners.
// Each corner may itself be any supported coordinate shape.
type Bounds struct {
	Southwest any
	Northeast any
}

// EncodeFunc is a compact path codec over a normalized coordinate sequence.
// The polyline package provides the stock implementation.
type EncodeFunc func(points []LatLng) string

// shape is the discriminant of the coordinate union. It is determined once
// by structural inspection, then matched exhaustively.
type shape int

const (
	shapeInvalid shape = iota
	shapeString
	shapePair
	shapeShort // lat / lng
	shapeLong  // latitude / longitude
	shapeCanonical
)

func classify(v any) shape {
	switch v.(type) {
	case string:
		return shapeString
	case LatLng, *LatLng:
		return shapeCanonical
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return lo.Ternary(rv.Len() == 2, shapePair, shapeInvalid)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return shapeInvalid
		}
		if hasMapKeys(rv, "lat", "lng") {
			return shapeShort
		}
		if hasMapKeys(rv, "latitude", "longitude") {
			return shapeLong
		}
	case reflect.Struct:
		if hasStructFields(rv, "Lat", "Lng") {
			return shapeShort
		}
		if hasStructFields(rv, "Latitude", "Longitude") {
			return shapeLong
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			return classify(rv.Elem().Interface())
		}
	}
	return shapeInvalid
}

// Convert normalizes any supported coordinate shape into a LatLng.
// A partial shape (say, an object carrying only "lat") is rejected;
// silently coercing it would corrupt the signed query string downstream.
func Convert(v any) (LatLng, error) {
	switch classify(v) {
	case shapeString:
		return fromString(v.(string))
	case shapePair:
		return fromPair(v)
	case shapeShort:
		return fromFields(v, "lat", "lng", "Lat", "Lng")
	case shapeLong:
		return fromFields(v, "latitude", "longitude", "Latitude", "Longitude")
	case shapeCanonical:
		if p, ok := v.(*LatLng); ok {
			if p == nil {
				return LatLng{}, fmt.Errorf("%w: nil coordinate", ErrShapeMismatch)
			}
			return *p, nil
		}
		return v.(LatLng), nil
	default:
		return LatLng{}, fmt.Errorf("%w: %T is not a supported coordinate", ErrShapeMismatch, v)
	}
}

// ToString renders a coordinate as "lat,lng". A string passes through
// untouched, and a 2-element pair is joined as-is without normalization so
// that numeric-string components are preserved byte for byte. Object shapes
// go through Convert first.
func ToString(v any) (string, error) {
	switch classify(v) {
	case shapeString:
		return v.(string), nil
	case shapePair:
		rv := indirect(reflect.ValueOf(v))
		first, err := component(rv.Index(0).Interface())
		if err != nil {
			return "", err
		}
		second, err := component(rv.Index(1).Interface())
		if err != nil {
			return "", err
		}
		return first + "," + second, nil
	case shapeShort, shapeLong, shapeCanonical:
		ll, err := Convert(v)
		if err != nil {
			return "", err
		}
		return ll.String(), nil
	default:
		return "", fmt.Errorf("%w: %T is not a supported coordinate", ErrShapeMismatch, v)
	}
}

// BoundsToString renders a bounds value as "<southwest>|<northeast>".
// Pre-formatted strings pass through untouched.
func BoundsToString(v any) (string, error) {
	var sw, ne any
	switch b := v.(type) {
	case string:
		return b, nil
	case Bounds:
		sw, ne = b.Southwest, b.Northeast
	case *Bounds:
		if b == nil {
			return "", fmt.Errorf("%w: nil bounds", ErrShapeMismatch)
		}
		sw, ne = b.Southwest, b.Northeast
	default:
		rv := indirect(reflect.ValueOf(v))
		switch {
		case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && hasMapKeys(rv, "southwest", "northeast"):
			sw = rv.MapIndex(reflect.ValueOf("southwest")).Interface()
			ne = rv.MapIndex(reflect.ValueOf("northeast")).Interface()
		case rv.Kind() == reflect.Struct && hasStructFields(rv, "Southwest", "Northeast"):
			sw = rv.FieldByName("Southwest").Interface()
			ne = rv.FieldByName("Northeast").Interface()
		default:
			return "", fmt.Errorf("%w: %T is not a supported bounds value", ErrShapeMismatch, v)
		}
	}
	first, err := ToString(sw)
	if err != nil {
		return "", fmt.Errorf("southwest: %w", err)
	}
	second, err := ToString(ne)
	if err != nil {
		return "", fmt.Errorf("northeast: %w", err)
	}
	return first + "|" + second, nil
}

// ArrayToString renders an ordered coordinate sequence, picking whichever of
// the two valid encodings is shorter: the elements serialized via ToString and
// joined by "|", or the enc-prefixed output of the path codec. Ties favor the
// plain form. Length is compared in raw characters before percent-encoding;
// the remote service decodes both forms to the same point sequence.
func ArrayToString(v any, enc EncodeFunc) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("%w: %T is not a coordinate sequence", ErrShapeMismatch, v)
	}
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}

	parts := make([]string, len(elems))
	for i, e := range elems {
		s, err := ToString(e)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		parts[i] = s
	}
	plain := strings.Join(parts, "|")
	if enc == nil {
		return plain, nil
	}

	points := make([]LatLng, len(elems))
	for i, e := range elems {
		ll, err := Convert(e)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		points[i] = ll
	}
	encoded := "enc:" + enc(points)
	return lo.Ternary(len(encoded) < len(plain), encoded, plain), nil
}

func fromString(s string) (LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("%w: %q is not a \"lat,lng\" string", ErrShapeMismatch, s)
	}
	lat, ok1 := numeric(strings.TrimSpace(parts[0]))
	lng, ok2 := numeric(strings.TrimSpace(parts[1]))
	if !ok1 || !ok2 {
		return LatLng{}, fmt.Errorf("%w: %q has non-numeric components", ErrShapeMismatch, s)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

func fromPair(v any) (LatLng, error) {
	rv := indirect(reflect.ValueOf(v))
	lat, ok1 := numeric(rv.Index(0).Interface())
	lng, ok2 := numeric(rv.Index(1).Interface())
	if !ok1 || !ok2 {
		return LatLng{}, fmt.Errorf("%w: pair %v has non-numeric components", ErrShapeMismatch, v)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

// fromFields pulls the latitude/longitude pair out of a map (lowercase keys)
// or a struct (exported field names).
func fromFields(v any, latKey, lngKey, latField, lngField string) (LatLng, error) {
	rv := indirect(reflect.ValueOf(v))
	var rawLat, rawLng any
	if rv.Kind() == reflect.Map {
		rawLat = rv.MapIndex(reflect.ValueOf(latKey)).Interface()
		rawLng = rv.MapIndex(reflect.ValueOf(lngKey)).Interface()
	} else {
		rawLat = rv.FieldByName(latField).Interface()
		rawLng = rv.FieldByName(lngField).Interface()
	}
	lat, ok1 := numeric(rawLat)
	lng, ok2 := numeric(rawLng)
	if !ok1 || !ok2 {
		return LatLng{}, fmt.Errorf("%w: %s/%s are not numeric", ErrShapeMismatch, latKey, lngKey)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

// component stringifies one element of an ordered pair, preserving string
// input exactly.
func component(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	if f, ok := numeric(v); ok {
		return formatFloat(f), nil
	}
	return "", fmt.Errorf("%w: pair component %T is neither string nor number", ErrShapeMismatch, v)
}

// numeric coerces numbers and numeric strings to float64.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func hasMapKeys(rv reflect.Value, keys ...string) bool {
	return lo.EveryBy(keys, func(k string) bool {
		return rv.MapIndex(reflect.ValueOf(k)).IsValid()
	})
}

func hasStructFields(rv reflect.Value, names ...string) bool {
	return lo.EveryBy(names, func(n string) bool {
		return rv.FieldByName(n).IsValid()
	})
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}
