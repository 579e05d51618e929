package cachekit

import (
	"reflect"
	"strings"
	"unicode"
)

// KeySeparator is the delimiter between an entity's prefix and its id text
// inside a composed Key.
const KeySeparator = ":"

// Key is the textual form of a cache entry's identity: "{prefix}:{id-text}".
type Key string

// String returns the key's textual form.
func (k Key) String() string { return string(k) }

// Compose builds a Key from a static prefix and an id's text form. Only the
// first KeySeparator delimits prefix from id — ids themselves may contain
// the separator.
func Compose(prefix, idText string) Key {
	return Key(prefix + KeySeparator + idText)
}

// ExtractID parses the id text back out of a composed Key by splitting on
// the first separator. The absence of a separator is a programming error
// and is reported as InvalidCacheEntryError.
func ExtractID(key Key) (string, error) {
	s := string(key)
	idx := strings.Index(s, KeySeparator)
	if idx < 0 {
		return "", &InvalidCacheEntryError{Key: s}
	}
	return s[idx+1:], nil
}

// ValidPrefix reports whether prefix matches the required syntax:
// [a-z][a-z0-9_]*, colon-free.
func ValidPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for i, r := range prefix {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
			continue
		case i > 0 && ((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'):
			continue
		default:
			return false
		}
	}
	return true
}

// DerivePrefix produces a lowercase, colon-free entity prefix from T's type
// name (e.g. "UserAccount" -> "user_account"), for callers that don't want
// to hand-write one.
func DerivePrefix[T any]() string {
	var sample T
	name := typeName(sample)
	return toSnake(name)
}

func typeName(v any) string {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return "unknown"
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	name := typ.Name()
	if name == "" {
		name = typ.String()
	}
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

// toSnake converts an identifier to snake_case, turning punctuation and
// spaces into underscores. Letters outside ASCII are lowercased but kept,
// so the result satisfies ValidPrefix only for ASCII identifiers that start
// with a letter.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				if !unicode.IsDigit(prev) && prev != '_' && !lastUnderscore {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r)
			lastUnderscore = false

		case r == '_' || r == '-' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
