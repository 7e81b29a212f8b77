// Package chat derives canonical identifiers for two-party conversations.
package chat

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the sorted participant pair into a conversation key.
const Separator = "_"

// ErrInvalidParticipants is returned when a conversation key is requested for
// an empty or self-referencing pair.
var ErrInvalidParticipants = errors.New("invalid conversation participants")

// ConversationID returns the canonical key for the unordered pair (a, b).
// The pair is sorted lexicographically so both argument orders produce the
// same key forever.
func ConversationID(a, b string) (string, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return "", fmt.Errorf("%w: empty participant id", ErrInvalidParticipants)
	}
	if a == b {
		return "", fmt.Errorf("%w: cannot converse with self", ErrInvalidParticipants)
	}
	if a > b {
		a, b = b, a
	}
	return a + Separator + b, nil
}

// Participants returns the ordered pair used to build a conversation
// document for the given key inputs. The order matches the key order so a
// conversation's participant list is itself deterministic.
func Participants(a, b string) [2]string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
