// Package signature computes the request signature required by the legacy
// shared-secret "premium plan" credential pair. The signature is HMAC-SHA1
// over the path and query of the unsigned URL, keyed with the decoded client
// secret, and is rendered in the URL-safe base64 alphabet.
package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrDecode reports a client secret that is not valid base64 once translated
// out of the URL-safe alphabet. It means the credential is misconfigured;
// retrying can never succeed.
var ErrDecode = errors.New("client secret is not valid base64")

var urlSafe = strings.NewReplacer("-", "+", "_", "/")

// CreatePremiumPlanSignature signs an already-canonicalized URL. Only the
// path and query take part in the signature; scheme, host and fragment are
// discarded, since that is exactly what the remote verifier recomputes.
func CreatePremiumPlanSignature(unsignedURL, clientSecret string) (string, error) {
	u, err := url.Parse(unsignedURL)
	if err != nil {
		return "", fmt.Errorf("unsigned url: %w", err)
	}
	key, err := decodeSecret(clientSecret)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(u.RequestURI()))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// decodeSecret translates the secret back to the standard base64 alphabet
// and decodes it to raw key bytes. Both padded and unpadded input is
// accepted; the wire form of premium-plan secrets is historically unpadded.
func decodeSecret(secret string) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(urlSafe.Replace(secret), "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return raw, nil
}
