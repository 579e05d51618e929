package cachekit

import "encoding/binary"

// magic is the four-byte tag every envelope begins with: the ASCII bytes
// "CKIT".
var magic = [4]byte{'C', 'K', 'I', 'T'}

// CurrentVersion is the compiled-in schema version. Bumping it implicitly
// invalidates every entry in every shared backend; no migration is
// attempted, entries simply refill from the repository.
const CurrentVersion uint32 = 1

// envelopeHeaderSize is the number of bytes preceding the payload: 4 bytes
// of magic plus a 4-byte little-endian version.
const envelopeHeaderSize = 8

// wrapEnvelope prepends the magic tag and CurrentVersion to payload,
// producing the bytes a Backend stores.
func wrapEnvelope(payload []byte) []byte {
	out := make([]byte, envelopeHeaderSize+len(payload))
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint32(out[4:8], CurrentVersion)
	copy(out[8:], payload)
	return out
}

// unwrapEnvelope validates the magic tag and version of an envelope read
// from a Backend and returns the payload bytes. A magic mismatch is
// reported as InvalidCacheEntryError; a version mismatch as
// VersionMismatchError. Both are always treated as a cache miss by the
// engine, never as a fatal error (Strategy A is the one exception, which
// folds them into "absent").
func unwrapEnvelope(key Key, raw []byte) ([]byte, error) {
	if len(raw) < envelopeHeaderSize {
		return nil, &InvalidCacheEntryError{Key: string(key)}
	}
	if raw[0] != magic[0] || raw[1] != magic[1] || raw[2] != magic[2] || raw[3] != magic[3] {
		return nil, &InvalidCacheEntryError{Key: string(key)}
	}
	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != CurrentVersion {
		return nil, &VersionMismatchError{Key: string(key), Expected: CurrentVersion, Found: version}
	}
	return raw[8:], nil
}
