package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. Verification IDs sort by the time the
// first code for an address was issued.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
