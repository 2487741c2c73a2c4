// Package room mints the public identity of an interview room. The slug is
// the only identifier ever shared in a join link; the numeric interview ID
// stays internal.
package room

import (
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

// GenerateSlug returns a short, URL-safe, unguessable token. Callers must
// treat the slug as immutable once persisted; a reschedule reuses the
// existing slug so previously shared links keep working.
func GenerateSlug() string {
	return shortuuid.New()
}

// BuildURL derives the shareable join link from the public base URL and a slug.
// Deterministic: the same inputs always produce the same link.
func BuildURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/interviews/room/" + slug
}
