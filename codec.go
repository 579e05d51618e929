package cachekit

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// JSONSerialize is a SerializeFunc built on encoding/json. It is the
// default choice for entities whose fields are all JSON-representable.
func JSONSerialize[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}

// JSONDeserialize is the DeserializeFunc counterpart of JSONSerialize.
func JSONDeserialize[T any](b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

// MsgpackSerialize is a SerializeFunc built on vmihailenco/msgpack, for
// entities where a compact binary payload matters more than
// human-readability: the msgpack payload stays a small, fast wire format
// kept separate from the envelope header.
func MsgpackSerialize[T any](v T) ([]byte, error) {
	return msgpack.Marshal(v)
}

// MsgpackDeserialize is the DeserializeFunc counterpart of MsgpackSerialize.
func MsgpackDeserialize[T any](b []byte) (T, error) {
	var v T
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
