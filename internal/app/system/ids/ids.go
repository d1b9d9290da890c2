// Package ids generates opaque identifiers for workspace records.
//
// Identifiers are "<prefix>-<uuid>" using a crypto/rand backed UUIDv4. If the secure
// source is unavailable the generator falls back to a short math/rand token. The
// fallback is only acceptable because these ids are record keys, never secrets.
package ids

import (
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
)

// Prefixes used for each record kind.
const (
	User      = "user"
	Project   = "project"
	Task      = "task"
	TimeEntry = "time"
)

// newRandom is swapped in tests to exercise the fallback.
var newRandom = uuid.NewRandom

// New returns a fresh identifier with the given prefix.
func New(prefix string) string {
	id, err := newRandom()
	if err != nil {
		return prefix + "-" + fallbackToken()
	}
	return prefix + "-" + id.String()
}

// fallbackToken returns 7 base36 characters.
func fallbackToken() string {
	const n = 7
	s := strconv.FormatUint(rand.Uint64(), 36)
	for len(s) < n {
		s = "0" + s
	}
	return s[len(s)-n:]
}
