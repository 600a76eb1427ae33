// Package wire defines what crosses the boundary between a caller and the
// registry: ordered argument slots going in and a single result buffer coming
// out.
package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidSlot is returned for a slot that is neither a value nor a
// reference.
var ErrInvalidSlot = errors.New("wire: invalid argument slot")

// Kind tags a Slot.
type Kind uint8

const (
	kindInvalid Kind = iota
	KindValue
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindReference:
		return "reference"
	default:
		return "invalid"
	}
}

// Slot is one positional argument. It carries either an encoded value or an
// opaque reference token minted by an external object store, never both.
// The zero Slot is invalid; use Value or Reference to build one.
type Slot struct {
	kind  Kind
	value []byte
	ref   string
}

// Value builds a slot carrying an encoded argument.
func Value(data []byte) Slot {
	return Slot{kind: KindValue, value: data}
}

// Reference builds a slot carrying a reference token.
func Reference(token string) Slot {
	return Slot{kind: KindReference, ref: token}
}

// Kind returns the slot's tag.
func (s Slot) Kind() Kind { return s.kind }

// Bytes returns the encoded value and true for a value slot.
func (s Slot) Bytes() ([]byte, bool) {
	return s.value, s.kind == KindValue
}

// Token returns the reference token and true for a reference slot.
func (s Slot) Token() (string, bool) {
	return s.ref, s.kind == KindReference
}

// Validate checks that exactly one case is populated.
func (s Slot) Validate() error {
	switch s.kind {
	case KindValue:
		if s.value == nil {
			return fmt.Errorf("%w: value slot without payload", ErrInvalidSlot)
		}
		if s.ref != "" {
			return fmt.Errorf("%w: value slot also carries a reference", ErrInvalidSlot)
		}
	case KindReference:
		if s.ref == "" {
			return fmt.Errorf("%w: reference slot without token", ErrInvalidSlot)
		}
		if s.value != nil {
			return fmt.Errorf("%w: reference slot also carries a value", ErrInvalidSlot)
		}
	default:
		return fmt.Errorf("%w: slot has no case populated", ErrInvalidSlot)
	}
	return nil
}

func (s Slot) String() string {
	switch s.kind {
	case KindValue:
		return fmt.Sprintf("value(%d bytes)", len(s.value))
	case KindReference:
		return fmt.Sprintf("reference(%s)", s.ref)
	default:
		return "invalid"
	}
}

var (
	_ msgpack.CustomEncoder = Slot{}
	_ msgpack.CustomDecoder = (*Slot)(nil)
)

// EncodeMsgpack writes the slot as a two element array [kind, payload].
func (s Slot) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(s.kind)); err != nil {
		return err
	}
	if s.kind == KindValue {
		return enc.EncodeBytes(s.value)
	}
	return enc.EncodeString(s.ref)
}

// DecodeMsgpack reads the form written by EncodeMsgpack.
func (s *Slot) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("%w: expected 2 elements, got %d", ErrInvalidSlot, n)
	}
	kind, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	switch Kind(kind) {
	case KindValue:
		data, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		*s = Value(data)
	case KindReference:
		token, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*s = Reference(token)
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidSlot, kind)
	}
	return s.Validate()
}

// Result is the encoded return value of one invocation.
type Result []byte

// EncodeArgs packs an ordered slot list into one buffer for a transport.
func EncodeArgs(slots []Slot) ([]byte, error) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(slots); err != nil {
		return nil, fmt.Errorf("wire: encoding %d slots: %w", len(slots), err)
	}
	return buf.Bytes(), nil
}

// DecodeArgs is the inverse of EncodeArgs.
func DecodeArgs(data []byte) ([]Slot, error) {
	var slots []Slot
	if err := msgpack.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("wire: decoding slots: %w", err)
	}
	return slots, nil
}
