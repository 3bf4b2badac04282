// Package mapq turns a loosely-typed request-parameter mapping into a
// deterministic, minimal-length query string for a geographic web service,
// and signs it when the caller authenticates with the legacy shared-secret
// credential pair. Every operation is a pure function over its own copy of
// the input; the same serializer may be used concurrently without
// coordination.
package mapq

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/kcmvp/mapq/signature"
	"github.com/samber/lo"
	"github.com/tidwall/match"
)

const (
	clientIDField     = "client_id"
	clientSecretField = "client_secret"
	clientField       = "client"
	signatureField    = "signature"
)

// ErrMissingCredentials reports a SignedQuery call whose parameters carry
// only one half of the premium-plan credential pair, or neither.
var ErrMissingCredentials = errors.New("client_id and client_secret are both required")

// ArrayFormat selects how a multi-value field reaches the wire.
type ArrayFormat int

const (
	// ArraySeparator emits one field occurrence with the values joined by
	// the separator character. This is the wire-compatible default.
	ArraySeparator ArrayFormat = iota
	// ArrayRepeat repeats the key once per value.
	ArrayRepeat
	// ArrayComma emits one field occurrence with comma-joined values.
	ArrayComma
)

type options struct {
	format    ArrayFormat
	separator string
}

// Option customizes query encoding.
type Option func(*options)

// WithArrayFormat overrides the multi-value field rendering.
func WithArrayFormat(f ArrayFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithSeparator overrides the character joining multi-value fields under
// ArraySeparator.
func WithSeparator(sep rune) Option {
	return func(o *options) {
		o.separator = string(sep)
	}
}

func newOptions(opts []Option) options {
	o := options{format: ArraySeparator, separator: "|"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Serializer returns the query-string builder for one endpoint: per-field
// serializers from table are applied first, then the mapping is encoded in
// insertion order. When both premium-plan credential fields are present the
// result is delegated to the signer instead of the plain encoder. The table
// is validated here, once, so a malformed entry fails at construction and
// not on some later request.
func Serializer(table Serializers, baseURL string, opts ...Option) func(*Params) (string, error) {
	for name, fn := range table {
		lo.Assertf(name != "", "mapq: serializer table contains an empty field name")
		lo.Assertf(fn != nil, "mapq: serializer for field '%s' is nil", name)
	}
	o := newOptions(opts)
	return func(p *Params) (string, error) {
		if p == nil {
			return "", nil
		}
		q := p.Clone()
		for _, name := range q.keys {
			fn, ok := table.resolve(name)
			if !ok {
				continue
			}
			out, err := fn(q.values[name])
			if err != nil {
				return "", fmt.Errorf("field '%s': %w", name, err)
			}
			q.values[name] = out
		}
		if q.Get(clientIDField).IsPresent() && q.Get(clientSecretField).IsPresent() {
			return signedQuery(baseURL, q, o)
		}
		return encodeQuery(q, o), nil
	}
}

// SignedQuery canonicalizes and signs params directly, without a serializer
// table. It fails with ErrMissingCredentials unless both credential fields
// are present.
func SignedQuery(baseURL string, p *Params, opts ...Option) (string, error) {
	if p == nil || !p.Get(clientIDField).IsPresent() || !p.Get(clientSecretField).IsPresent() {
		return "", ErrMissingCredentials
	}
	return signedQuery(baseURL, p.Clone(), newOptions(opts))
}

// resolve finds the Func for a field: a literal entry wins, then wildcard
// entries are tried in sorted order so the outcome never depends on map
// iteration.
func (t Serializers) resolve(name string) (Func, bool) {
	if fn, ok := t[name]; ok {
		return fn, true
	}
	patterns := lo.Filter(lo.Keys(t), func(k string, _ int) bool { return match.IsPattern(k) })
	sort.Strings(patterns)
	for _, pattern := range patterns {
		if match.Match(name, pattern) {
			return t[pattern], true
		}
	}
	return nil, false
}

// signedQuery performs the single-shot canonicalize-then-sign sequence.
// q must already be a private copy; it is edited destructively.
func signedQuery(baseURL string, q *Params, o options) (string, error) {
	id := q.Get(clientIDField).MustGet()
	secret := stringify(q.Get(clientSecretField).MustGet())
	q.Delete(clientIDField)
	q.Delete(clientSecretField)
	// The secret never reaches the wire; the identifier is renamed and, as a
	// fresh field, lands after every caller-supplied one.
	q.Set(clientField, id)
	unsigned := encodeQuery(q, o)
	sig, err := signature.CreatePremiumPlanSignature(baseURL+"?"+unsigned, secret)
	if err != nil {
		return "", err
	}
	return unsigned + "&" + signatureField + "=" + sig, nil
}

// encodeQuery renders the mapping in insertion order with percent-encoded
// keys and values.
func encodeQuery(q *Params, o options) string {
	var b strings.Builder
	appendPair := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	for _, key := range q.keys {
		v := q.values[key]
		if v == nil {
			appendPair(key, "")
			continue
		}
		vals, ok := sliceValues(v)
		if !ok {
			appendPair(key, stringify(v))
			continue
		}
		switch o.format {
		case ArrayRepeat:
			for _, el := range vals {
				appendPair(key, el)
			}
		case ArrayComma:
			appendPair(key, strings.Join(vals, ","))
		default:
			appendPair(key, strings.Join(vals, o.separator))
		}
	}
	return b.String()
}

// sliceValues stringifies the elements of a multi-value field. Strings and
// byte slices are scalars here.
func sliceValues(v any) ([]string, bool) {
	switch v.(type) {
	case string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = stringify(rv.Index(i).Interface())
	}
	return out, true
}
