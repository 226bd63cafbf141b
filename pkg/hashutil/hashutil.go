// Package hashutil provides deterministic 64-bit fingerprints for maps,
// slices and raw content.
//
// Map fingerprints are independent of Go's randomized map iteration order:
// entries are sorted by key before they are fed to the hash, so two maps with
// the same logical contents always produce the same value, across runs and
// across processes.
package hashutil

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Map returns a fingerprint of m that does not depend on iteration order.
func Map[K cmp.Ordered, V any](m map[K]V) uint64 {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	h := xxh3.New()
	for _, k := range keys {
		writeValue(h, k)
		writeValue(h, m[k])
	}
	return h.Sum64()
}

// Slice returns a fingerprint of s. Element order is significant.
func Slice[V any](s []V) uint64 {
	h := xxh3.New()
	for _, v := range s {
		writeValue(h, v)
	}
	return h.Sum64()
}

// Bytes returns the fingerprint of raw content.
func Bytes(b []byte) uint64 {
	return xxh3.Hash(b)
}

// String returns the fingerprint of s.
func String(s string) uint64 {
	return xxh3.HashString(s)
}

// Hex formats a fingerprint as 16 lowercase hex digits.
func Hex(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// ContentHash returns the hex fingerprint of raw content, used as a module's
// content hash.
func ContentHash(b []byte) string {
	return Hex(Bytes(b))
}

// writeValue writes a length-prefixed canonical encoding of v so that
// adjacent values cannot run into each other ("ab"+"c" vs "a"+"bc").
func writeValue(h *xxh3.Hasher, v any) {
	var buf []byte
	switch x := v.(type) {
	case string:
		buf = []byte(x)
	case []byte:
		buf = x
	case bool:
		buf = strconv.AppendBool(nil, x)
	case int:
		buf = strconv.AppendInt(nil, int64(x), 10)
	case int8:
		buf = strconv.AppendInt(nil, int64(x), 10)
	case int16:
		buf = strconv.AppendInt(nil, int64(x), 10)
	case int32:
		buf = strconv.AppendInt(nil, int64(x), 10)
	case int64:
		buf = strconv.AppendInt(nil, x, 10)
	case uint:
		buf = strconv.AppendUint(nil, uint64(x), 10)
	case uint8:
		buf = strconv.AppendUint(nil, uint64(x), 10)
	case uint16:
		buf = strconv.AppendUint(nil, uint64(x), 10)
	case uint32:
		buf = strconv.AppendUint(nil, uint64(x), 10)
	case uint64:
		buf = strconv.AppendUint(nil, x, 10)
	case float32:
		buf = binary.LittleEndian.AppendUint64(nil, math.Float64bits(float64(x)))
	case float64:
		buf = binary.LittleEndian.AppendUint64(nil, math.Float64bits(x))
	case fmt.Stringer:
		buf = []byte(x.String())
	default:
		buf = []byte(fmt.Sprintf("%v", x))
	}

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(buf)))
	_, _ = h.Write(lenBuf[:n])
	_, _ = h.Write(buf)
}
