package room

import (
	"fmt"
	"strings"
)

// Separator joins the two participant identities into a room name.
const Separator = "_"

// Name derives the room identifier for a pair of identities. Both sides of a
// conversation derive the same name regardless of who initiates: identities
// are lowercased, sorted and joined with Separator.
func Name(a, b string) string {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	return a + Separator + b
}

// Participants splits a room name back into its two identities.
func Participants(room string) (string, string, error) {
	parts := strings.Split(room, Separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed room name %q", room)
	}
	return parts[0], parts[1], nil
}

// Other returns the room participant that is not identity.
func Other(room, identity string) (string, error) {
	a, b, err := Participants(room)
	if err != nil {
		return "", err
	}
	if a == strings.ToLower(identity) {
		return b, nil
	}
	return a, nil
}
