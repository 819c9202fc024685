// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stableid derives deterministic numeric identifiers from semantic
// strings so that regenerating a deck updates existing notes in the
// consumer's collection instead of duplicating them.
package stableid

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"
)

// SchemaVersion tags the note field layout. Bump it whenever the model's
// fields change so the model ID changes with them.
const SchemaVersion = "v4"

// partSep separates the parts passed to Of and GUID.
const partSep = "\x1f"

const mask31 = 1<<31 - 1

// ID returns the first four bytes of the SHA-256 digest of s, big-endian,
// with the top bit cleared. The result is in [0, 2^31).
func ID(s string) int64 {
	sum := sha256.Sum256([]byte(s))
	return int64(binary.BigEndian.Uint32(sum[:4]) & mask31)
}

// Of hashes parts joined by a unit separator, so ("ab", "c") and
// ("a", "bc") map to different IDs.
func Of(parts ...string) int64 {
	return ID(strings.Join(parts, partSep))
}

// GUID returns the decimal form of Of(parts...), used as a note GUID.
func GUID(parts ...string) string {
	return strconv.FormatInt(Of(parts...), 10)
}

// DeckID returns the deck identifier for a deck title.
func DeckID(deckTitle string) int64 {
	return ID(deckTitle)
}

// ModelID returns the note model identifier for a deck title and pipeline
// variant. It embeds SchemaVersion.
func ModelID(deckTitle, variant string) int64 {
	return ID(deckTitle + "_" + variant + "_Model_" + SchemaVersion)
}
