package mapq

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleSecret is the well-known sample key from the URL-signing docs.
const sampleSecret = "vNIXE0xscrmjlyV-12Nj_BvUPaw="

func TestSerializerPlainQuery(t *testing.T) {
	serialize := Serializer(DefaultSerializers(), "https://maps.googleapis.com/maps/api/directions/json")

	t.Run("insertion_order_preserved", func(t *testing.T) {
		got, err := serialize(NewParams().
			Set("origin", []float64{38.5, -120.2}).
			Set("destination", "40.7,-120.95").
			Set("mode", "driving"))
		require.NoError(t, err)
		assert.Equal(t, "origin=38.5%2C-120.2&destination=40.7%2C-120.95&mode=driving", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		p := NewParams().
			Set("origin", map[string]any{"lat": 38.5, "lng": -120.2}).
			Set("components", map[string]any{"locality": "Seattle", "country": "US"})
		first, err := serialize(p)
		require.NoError(t, err)
		for i := 0; i < 16; i++ {
			again, err := serialize(p)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("input_never_mutated", func(t *testing.T) {
		p := NewParams().
			Set("origin", []float64{38.5, -120.2}).
			Set("client_id", "clientID").
			Set("client_secret", sampleSecret)
		_, err := serialize(p)
		require.NoError(t, err)
		assert.Equal(t, []string{"origin", "client_id", "client_secret"}, p.Keys())
		assert.Equal(t, []float64{38.5, -120.2}, p.Get("origin").MustGet())
		assert.Equal(t, sampleSecret, p.Get("client_secret").MustGet())
	})

	t.Run("untouched_array_joined_by_separator", func(t *testing.T) {
		got, err := serialize(NewParams().Set("avoid", []string{"tolls", "ferries"}))
		require.NoError(t, err)
		assert.Equal(t, "avoid=tolls%7Cferries", got)
	})

	t.Run("array_repeat", func(t *testing.T) {
		serialize := Serializer(nil, "https://example.com/json", WithArrayFormat(ArrayRepeat))
		got, err := serialize(NewParams().Set("avoid", []string{"tolls", "ferries"}))
		require.NoError(t, err)
		assert.Equal(t, "avoid=tolls&avoid=ferries", got)
	})

	t.Run("array_comma", func(t *testing.T) {
		serialize := Serializer(nil, "https://example.com/json", WithArrayFormat(ArrayComma))
		got, err := serialize(NewParams().Set("avoid", []string{"tolls", "ferries"}))
		require.NoError(t, err)
		assert.Equal(t, "avoid=tolls%2Cferries", got)
	})

	t.Run("custom_separator", func(t *testing.T) {
		serialize := Serializer(nil, "https://example.com/json", WithSeparator(';'))
		got, err := serialize(NewParams().Set("avoid", []string{"tolls", "ferries"}))
		require.NoError(t, err)
		assert.Equal(t, "avoid=tolls%3Bferries", got)
	})

	t.Run("scalar_values", func(t *testing.T) {
		got, err := serialize(NewParams().
			Set("alternatives", true).
			Set("radius", 5000).
			Set("empty", nil))
		require.NoError(t, err)
		assert.Equal(t, "alternatives=true&radius=5000&empty=", got)
	})

	t.Run("field_error_carries_name", func(t *testing.T) {
		_, err := serialize(NewParams().Set("origin", map[string]any{"foo": 1}))
		require.ErrorIs(t, err, ErrShapeMismatch)
		assert.Contains(t, err.Error(), "origin")
	})

	t.Run("nil_params", func(t *testing.T) {
		got, err := serialize(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSerializerPremiumPlan(t *testing.T) {
	serialize := Serializer(DefaultSerializers(), "https://maps.googleapis.com/maps/api/geocode/json")

	t.Run("end_to_end", func(t *testing.T) {
		got, err := serialize(NewParams().
			Set("address", "123 Main St").
			Set("client_id", "clientID").
			Set("client_secret", sampleSecret))
		require.NoError(t, err)
		assert.Equal(t, "address=123+Main+St&client=clientID&signature=iVfoi5p4UAObf0cj4JqNk7mA85M=", got)
		assert.Contains(t, got, "client=clientID")
		assert.NotContains(t, got, "client_id")
		assert.NotContains(t, got, "client_secret")
		assert.NotContains(t, got, sampleSecret)
	})

	t.Run("signature_always_last", func(t *testing.T) {
		got, err := serialize(NewParams().
			Set("client_secret", sampleSecret).
			Set("client_id", "clientID").
			Set("address", "123 Main St"))
		require.NoError(t, err)
		idx := strings.Index(got, "&signature=")
		require.Positive(t, idx)
		assert.NotContains(t, got[idx+1:], "&")
	})

	t.Run("serialized_fields_are_signed", func(t *testing.T) {
		serialize := Serializer(DefaultSerializers(), "https://maps.googleapis.com/maps/api/directions/json")
		got, err := serialize(NewParams().
			Set("origin", []float64{38.5, -120.2}).
			Set("destination", []float64{40.7, -120.95}).
			Set("client_id", "clientID").
			Set("client_secret", sampleSecret))
		require.NoError(t, err)
		assert.Equal(t,
			"origin=38.5%2C-120.2&destination=40.7%2C-120.95&client=clientID&signature=G4_EqzaNLgivK1iPCW6ebtcwc68=",
			got)
	})

	t.Run("bad_secret", func(t *testing.T) {
		_, err := serialize(NewParams().
			Set("address", "123 Main St").
			Set("client_id", "clientID").
			Set("client_secret", "not*base64!"))
		require.Error(t, err)
	})

	t.Run("api_key_alone_is_not_premium", func(t *testing.T) {
		got, err := serialize(NewParams().
			Set("address", "123 Main St").
			Set("key", "AIzaSample"))
		require.NoError(t, err)
		assert.Equal(t, "address=123+Main+St&key=AIzaSample", got)
	})

	t.Run("client_id_alone_passes_through", func(t *testing.T) {
		got, err := serialize(NewParams().
			Set("address", "123 Main St").
			Set("client_id", "clientID"))
		require.NoError(t, err)
		assert.Equal(t, "address=123+Main+St&client_id=clientID", got)
	})
}

func TestSignedQuery(t *testing.T) {
	t.Run("signs_without_table", func(t *testing.T) {
		got, err := SignedQuery("https://maps.googleapis.com/maps/api/geocode/json", NewParams().
			Set("address", "123 Main St").
			Set("client_id", "clientID").
			Set("client_secret", sampleSecret))
		require.NoError(t, err)
		assert.Equal(t, "address=123+Main+St&client=clientID&signature=iVfoi5p4UAObf0cj4JqNk7mA85M=", got)
	})

	t.Run("missing_credentials", func(t *testing.T) {
		_, err := SignedQuery("https://example.com/json", NewParams().Set("client_id", "clientID"))
		require.ErrorIs(t, err, ErrMissingCredentials)
		_, err = SignedQuery("https://example.com/json", nil)
		require.ErrorIs(t, err, ErrMissingCredentials)
	})
}

func TestSerializerTableValidation(t *testing.T) {
	assert.Panics(t, func() {
		Serializer(Serializers{"origin": nil}, "https://example.com/json")
	})
	assert.Panics(t, func() {
		Serializer(Serializers{"": ToTimestamp}, "https://example.com/json")
	})
}
