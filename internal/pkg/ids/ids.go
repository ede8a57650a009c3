package ids

import "github.com/oklog/ulid/v2"

// New returns a 26-character, lexicographically sortable ULID string.
func New() string {
	return ulid.Make().String()
}
