package calendly

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingSignature  = errors.New("calendly: signature header missing")
	ErrInvalidSignature  = errors.New("calendly: signature verification failed")
	ErrMissingSigningKey = errors.New("calendly: signing key not configured")
)

// VerifySignature checks the provider signature over the raw request body.
// The header format is "t=<unix>,v1=<hex hmac>" where the HMAC-SHA256 is
// computed over "<unix>.<body>" with the shared signing key. An empty signing
// key never verifies: anyone could mint a valid MAC for it.
func VerifySignature(body []byte, header, signingKey string) error {
	if signingKey == "" {
		return ErrMissingSigningKey
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrMissingSignature
	}

	timestamp, signature, err := parseSignatureHeader(header)
	if err != nil {
		return ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(body))
	mac := hmac.New(sha256.New, []byte(signingKey))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign produces a header value VerifySignature accepts. Used by tests and by
// local tooling that replays captured events.
func Sign(body []byte, timestamp, signingKey string) string {
	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(body))
	mac := hmac.New(sha256.New, []byte(signingKey))
	_, _ = mac.Write([]byte(signedPayload))
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (timestamp, signature string, err error) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signature = value
		}
	}
	if timestamp == "" || signature == "" {
		return "", "", errors.New("calendly: malformed signature header")
	}
	return timestamp, signature, nil
}
