package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
)

// Handle id prefixes for data-derived connection points.
const (
	ItemPrefix   = "item"
	OptionPrefix = "option"
)

// handleRegex splits `prefix-key`, e.g. `item-3` or `item-k7`.
var handleRegex = regexp.MustCompile(`^([a-zA-Z]+)-(.+)$`)

// HandleRef is the structured form of a data-derived handle id.
type HandleRef struct {
	Prefix string
	Key    string
}

// String serializes the reference back to `prefix-key`.
func (h HandleRef) String() string {
	return h.Prefix + "-" + h.Key
}

// Index interprets the key as a non-negative list position.
func (h HandleRef) Index() (int, bool) {
	i, err := strconv.Atoi(h.Key)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// IndexHandle builds the positional handle id for element i.
func IndexHandle(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}

// KeyHandle builds the handle id for a stable item key.
func KeyHandle(prefix, key string) string {
	return prefix + "-" + key
}

// ParseHandle parses a data-derived handle id.
func ParseHandle(raw string) (HandleRef, error) {
	if raw == "" {
		return HandleRef{}, fmt.Errorf("handle id cannot be empty")
	}
	m := handleRegex.FindStringSubmatch(raw)
	if m == nil {
		return HandleRef{}, fmt.Errorf("invalid handle id format: %q", raw)
	}
	return HandleRef{Prefix: m[1], Key: m[2]}, nil
}
