package infra

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
)

var (
	ErrKeyEmpty    = errors.New("key is empty")
	ErrKeyNotFound = errors.New("key not found")
)

// KVPair is a single key/value entry returned by List.
type KVPair struct {
	Key   string
	Value []byte
}

// KVStore is a small key-value abstraction over whatever local store is
// configured (Badger on disk, in-memory for tests). Values written with
// SetAny go through the store's codec.
type KVStore interface {
	GetName() string
	Set(k string, v string) error
	Get(k string) (v string, err error)
	SetAny(k string, v any) error
	GetAny(k string, v any) (found bool, err error)
	List(prefix string) ([]*KVPair, error)
	Delete(k string) error
	Close() error
}

// Codec encodes/decodes Go values to/from slices of bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Convenience variables
var (
	JSON = JSONCodec{}
	Gob  = GobCodec{}
)

// JSONCodec encodes/decodes Go values to/from JSON.
type JSONCodec struct{}

func (c JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// GobCodec encodes/decodes Go values to/from gob.
type GobCodec struct{}

func (c GobCodec) Marshal(v any) ([]byte, error) {
	buffer := new(bytes.Buffer)
	if err := gob.NewEncoder(buffer).Encode(v); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (c GobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
