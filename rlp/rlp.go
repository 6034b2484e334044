// Package rlp implements the canonical recursive-length-prefix encoding
// consumed by the engine (spec.md §4.1, §6: "RLP codec"). Integers
// serialize as minimal big-endian byte strings, with zero encoding to the
// empty string; fixed-size byte fields are length-checked on decode.
//
// The real RLP codec is, per spec.md §1, an external collaborator — the
// only concrete implementation anywhere in the retrieval pack belongs to
// go-ethereum itself, which this repository replaces, so depending on it
// would be circular. This is a small, from-scratch implementation
// grounded directly on the spec and on ethereum/blocks.py's use of
// rlp.encode/decode (see DESIGN.md).
package rlp

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/holiman/uint256"
)

// ErrFixedSize is returned when a fixed-width field (a Hash, an Address,
// an 8-byte PoW nonce, ...) is decoded from a byte string of the wrong
// length.
var ErrFixedSize = errors.New("rlp: decoded byte string has wrong length for fixed-size field")

// ErrExpectedList is returned when a struct or slice destination is
// decoded from a byte-string item instead of a list item.
var ErrExpectedList = errors.New("rlp: expected list, got byte string")

// ErrExpectedString is returned when a scalar destination is decoded from
// a list item instead of a byte-string item.
var ErrExpectedString = errors.New("rlp: expected byte string, got list")

// item is the generic decoded shape of an RLP value: either a byte
// string or an ordered list of items.
type item struct {
	str  []byte
	list []item
	isList bool
}

// EncodeToBytes returns the canonical RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	return EncodeExcluding(val)
}

// EncodeExcluding returns the canonical RLP encoding of val, omitting any
// named struct fields in excluded at every nesting level. It exists for
// BlockHeader.MiningHash, which must encode the header without its
// mixhash and nonce fields (spec.md §4.1, §4.4).
func EncodeExcluding(val interface{}, excluded ...string) ([]byte, error) {
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}
	it, err := encodeValue(reflect.ValueOf(val), skip)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeItem(&buf, it)
	return buf.Bytes(), nil
}

// Encode writes the canonical RLP encoding of val to w.
func Encode(w *bytes.Buffer, val interface{}) error {
	it, err := encodeValue(reflect.ValueOf(val), nil)
	if err != nil {
		return err
	}
	writeItem(w, it)
	return nil
}

// DecodeBytes parses the RLP-encoded data into val, which must be a
// non-nil pointer.
func DecodeBytes(data []byte, val interface{}) error {
	it, rest, err := parseItem(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("rlp: %d trailing bytes after value", len(rest))
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("rlp: Decode requires a non-nil pointer")
	}
	return decodeValue(it, rv.Elem())
}

// --- encoding ---------------------------------------------------------

var (
	uint256Type = reflect.TypeOf(uint256.Int{})
	bigEndianByteType = reflect.TypeOf(byte(0))
)

func encodeValue(v reflect.Value, skip map[string]bool) (item, error) {
	if !v.IsValid() {
		return item{str: nil}, nil
	}
	if v.Type() == uint256Type {
		u := v.Interface().(uint256.Int)
		return item{str: minimalUint256(&u)}, nil
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			if v.Type().Elem() == uint256Type {
				return item{str: nil}, nil
			}
			return item{str: nil}, nil
		}
		if v.Type().Elem() == uint256Type {
			u := v.Interface().(*uint256.Int)
			return item{str: minimalUint256(u)}, nil
		}
		return encodeValue(v.Elem(), skip)
	case reflect.Struct:
		return encodeStruct(v, skip)
	case reflect.Slice, reflect.Array:
		if v.Type().Elem() == bigEndianByteType {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return item{str: b}, nil
		}
		items := make([]item, v.Len())
		for i := 0; i < v.Len(); i++ {
			it, err := encodeValue(v.Index(i), skip)
			if err != nil {
				return item{}, err
			}
			items[i] = it
		}
		return item{list: items, isList: true}, nil
	case reflect.String:
		return item{str: []byte(v.String())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return item{str: minimalUint(v.Uint())}, nil
	case reflect.Bool:
		if v.Bool() {
			return item{str: []byte{0x01}}, nil
		}
		return item{str: nil}, nil
	default:
		return item{}, fmt.Errorf("rlp: unsupported kind %s", v.Kind())
	}
}

func encodeStruct(v reflect.Value, skip map[string]bool) (item, error) {
	t := v.Type()
	items := make([]item, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		name := fieldName(f)
		if skip[name] || name == "-" {
			continue
		}
		it, err := encodeValue(v.Field(i), skip)
		if err != nil {
			return item{}, fmt.Errorf("rlp: field %s: %w", f.Name, err)
		}
		items = append(items, it)
	}
	return item{list: items, isList: true}, nil
}

func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("rlp"); ok && tag != "" {
		return tag
	}
	return f.Name
}

func minimalUint(x uint64) []byte {
	if x == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(x)
		x >>= 8
	}
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return append([]byte(nil), buf[i:]...)
}

func minimalUint256(u *uint256.Int) []byte {
	if u == nil || u.IsZero() {
		return nil
	}
	return u.Bytes()
}

// --- wire serialization -------------------------------------------------

func writeItem(buf *bytes.Buffer, it item) {
	if it.isList {
		var inner bytes.Buffer
		for _, sub := range it.list {
			writeItem(&inner, sub)
		}
		writeListHeader(buf, inner.Len())
		buf.Write(inner.Bytes())
		return
	}
	if len(it.str) == 1 && it.str[0] < 0x80 {
		buf.WriteByte(it.str[0])
		return
	}
	writeStringHeader(buf, len(it.str))
	buf.Write(it.str)
}

func writeStringHeader(buf *bytes.Buffer, n int) {
	switch {
	case n <= 55:
		buf.WriteByte(byte(0x80 + n))
	default:
		lenBytes := minimalUint(uint64(n))
		buf.WriteByte(byte(0xb7 + len(lenBytes)))
		buf.Write(lenBytes)
	}
}

func writeListHeader(buf *bytes.Buffer, n int) {
	if n <= 55 {
		buf.WriteByte(byte(0xc0 + n))
		return
	}
	lenBytes := minimalUint(uint64(n))
	buf.WriteByte(byte(0xf7 + len(lenBytes)))
	buf.Write(lenBytes)
}

// --- parsing -------------------------------------------------------------

func parseItem(b []byte) (item, []byte, error) {
	if len(b) == 0 {
		return item{}, nil, errors.New("rlp: unexpected end of input")
	}
	first := b[0]
	switch {
	case first < 0x80:
		return item{str: b[0:1]}, b[1:], nil
	case first < 0xb8:
		n := int(first - 0x80)
		if len(b) < 1+n {
			return item{}, nil, errors.New("rlp: short string")
		}
		return item{str: b[1 : 1+n]}, b[1+n:], nil
	case first < 0xc0:
		lenLen := int(first - 0xb7)
		if len(b) < 1+lenLen {
			return item{}, nil, errors.New("rlp: short string length")
		}
		n := int(decodeUint(b[1 : 1+lenLen]))
		start := 1 + lenLen
		if len(b) < start+n {
			return item{}, nil, errors.New("rlp: short string")
		}
		return item{str: b[start : start+n]}, b[start+n:], nil
	case first < 0xf8:
		n := int(first - 0xc0)
		if len(b) < 1+n {
			return item{}, nil, errors.New("rlp: short list")
		}
		return parseList(b[1:1+n], b[1+n:])
	default:
		lenLen := int(first - 0xf7)
		if len(b) < 1+lenLen {
			return item{}, nil, errors.New("rlp: short list length")
		}
		n := int(decodeUint(b[1 : 1+lenLen]))
		start := 1 + lenLen
		if len(b) < start+n {
			return item{}, nil, errors.New("rlp: short list")
		}
		return parseList(b[start:start+n], b[start+n:])
	}
}

func parseList(body []byte, rest []byte) (item, []byte, error) {
	var items []item
	for len(body) > 0 {
		it, r, err := parseItem(body)
		if err != nil {
			return item{}, nil, err
		}
		items = append(items, it)
		body = r
	}
	return item{list: items, isList: true}, rest, nil
}

func decodeUint(b []byte) uint64 {
	var x uint64
	for _, c := range b {
		x = x<<8 | uint64(c)
	}
	return x
}

// --- decoding into Go values ---------------------------------------------

func decodeValue(it item, v reflect.Value) error {
	if v.Type() == uint256Type {
		if it.isList {
			return ErrExpectedString
		}
		v.Set(reflect.ValueOf(*new(uint256.Int).SetBytes(it.str)))
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr:
		if it.str == nil && !it.isList {
			return nil
		}
		if v.Type().Elem() == uint256Type {
			if it.isList {
				return ErrExpectedString
			}
			u := new(uint256.Int).SetBytes(it.str)
			v.Set(reflect.ValueOf(u))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeValue(it, v.Elem())
	case reflect.Struct:
		if !it.isList {
			return ErrExpectedList
		}
		return decodeStruct(it.list, v)
	case reflect.Slice:
		if v.Type().Elem() == bigEndianByteType {
			if it.isList {
				return ErrExpectedString
			}
			v.SetBytes(append([]byte(nil), it.str...))
			return nil
		}
		if !it.isList {
			return ErrExpectedList
		}
		sl := reflect.MakeSlice(v.Type(), len(it.list), len(it.list))
		for i, sub := range it.list {
			if err := decodeValue(sub, sl.Index(i)); err != nil {
				return err
			}
		}
		v.Set(sl)
		return nil
	case reflect.Array:
		if it.isList {
			return ErrExpectedString
		}
		if v.Type().Elem() == bigEndianByteType {
			if len(it.str) != v.Len() {
				return fmt.Errorf("%w: want %d got %d", ErrFixedSize, v.Len(), len(it.str))
			}
			reflect.Copy(v, reflect.ValueOf(it.str))
			return nil
		}
		return fmt.Errorf("rlp: unsupported array element type %s", v.Type().Elem())
	case reflect.String:
		if it.isList {
			return ErrExpectedString
		}
		v.SetString(string(it.str))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if it.isList {
			return ErrExpectedString
		}
		if len(it.str) > 8 {
			return fmt.Errorf("rlp: uint64 overflow (%d bytes)", len(it.str))
		}
		v.SetUint(decodeUint(it.str))
		return nil
	case reflect.Bool:
		if it.isList {
			return ErrExpectedString
		}
		v.SetBool(len(it.str) != 0)
		return nil
	default:
		return fmt.Errorf("rlp: unsupported destination kind %s", v.Kind())
	}
}

func decodeStruct(items []item, v reflect.Value) error {
	t := v.Type()
	idx := 0
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		if fieldName(f) == "-" {
			continue
		}
		if idx >= len(items) {
			return fmt.Errorf("rlp: too few list elements for struct %s", t.Name())
		}
		if err := decodeValue(items[idx], v.Field(i)); err != nil {
			return fmt.Errorf("rlp: field %s: %w", f.Name, err)
		}
		idx++
	}
	return nil
}

// --- low-level helpers for hand-rolled node encodings (trie) -------------

// EncodeString returns the canonical RLP encoding of a single byte-string
// item. trie uses this to encode node slots (nibble keys, hash
// references, embedded values) without going through struct reflection.
func EncodeString(b []byte) []byte {
	var buf bytes.Buffer
	writeItem(&buf, item{str: b})
	return buf.Bytes()
}

// EncodeListOfItems wraps already-encoded RLP items in a list header,
// concatenating their bytes as the list body.
func EncodeListOfItems(items ...[]byte) []byte {
	var body bytes.Buffer
	for _, it := range items {
		body.Write(it)
	}
	var buf bytes.Buffer
	writeListHeader(&buf, body.Len())
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// SplitList decodes the top-level list in b and returns each element
// re-encoded as a standalone RLP value.
func SplitList(b []byte) ([][]byte, error) {
	it, rest, err := parseItem(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rlp: %d trailing bytes after list", len(rest))
	}
	if !it.isList {
		return nil, ErrExpectedList
	}
	out := make([][]byte, len(it.list))
	for i, sub := range it.list {
		var buf bytes.Buffer
		writeItem(&buf, sub)
		out[i] = buf.Bytes()
	}
	return out, nil
}

// SplitString decodes b as a single byte-string item.
func SplitString(b []byte) ([]byte, error) {
	it, rest, err := parseItem(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rlp: %d trailing bytes after string", len(rest))
	}
	if it.isList {
		return nil, ErrExpectedString
	}
	return it.str, nil
}

// IsList reports whether the first item encoded in b is a list.
func IsList(b []byte) bool {
	return len(b) > 0 && b[0] >= 0xc0
}

// SortedKeys returns the keys of m in ascending byte order, for callers
// that need a deterministic iteration order over a ToDict-style map.
func SortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
