// Package polyline implements Google's polyline algorithm format at the
// standard 1e-5 precision. Encode is the stock path codec bound into the
// default serializer table; both directions are pure functions.
package polyline

import (
	"errors"
	"math"

	"github.com/kcmvp/mapq/latlng"
)

// ErrTruncated reports a polyline string that ends in the middle of a value.
var ErrTruncated = errors.New("polyline truncated")

// Encode renders an ordered coordinate sequence as a polyline string.
// Coordinates are rounded to five decimal places, delta-encoded against the
// previous point, zigzag-transformed and emitted as base-63 chunks.
func Encode(points []latlng.LatLng) string {
	out := make([]byte, 0, len(points)*10)
	var prevLat, prevLng int
	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lng := int(math.Round(p.Lng * 1e5))
		out = appendSigned(out, lat-prevLat)
		out = appendSigned(out, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return string(out)
}

// Decode is the inverse of Encode. It fails with ErrTruncated when the input
// stops mid-value or carries a latitude without its longitude.
func Decode(s string) ([]latlng.LatLng, error) {
	points := make([]latlng.LatLng, 0, len(s)/4)
	var lat, lng int
	for i := 0; i < len(s); {
		delta, j, err := decodeValue(s, i)
		if err != nil {
			return nil, err
		}
		lat += delta
		delta, j, err = decodeValue(s, j)
		if err != nil {
			return nil, err
		}
		lng += delta
		i = j
		points = append(points, latlng.LatLng{
			Lat: float64(lat) * 1e-5,
			Lng: float64(lng) * 1e-5,
		})
	}
	return points, nil
}

// appendSigned writes one signed value as zigzag-encoded 5-bit chunks,
// least significant first, each offset by 63 into printable ASCII.
func appendSigned(dst []byte, v int) []byte {
	s := v << 1
	if v < 0 {
		s = ^s
	}
	for s >= 0x20 {
		dst = append(dst, byte(0x20|(s&0x1f))+63)
		s >>= 5
	}
	return append(dst, byte(s)+63)
}

// decodeValue decodes one delta value starting at i and returns it with the
// index of the following value.
func decodeValue(s string, i int) (int, int, error) {
	var result, shift int
	for {
		if i >= len(s) {
			return 0, 0, ErrTruncated
		}
		b := int(s[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	return (result >> 1) ^ -(result & 1), i, nil
}
