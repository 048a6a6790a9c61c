// Package hash computes the LCM "base hash" of a struct from its field
// metadata, following LCM's reference mixing algorithm exactly. The
// emitted C++ embeds the result as a compile-time literal.
package hash

import "github.com/bufbuild/lcmgen/internal/lcmast"

// Base computes the 64-bit base hash of s, returned as the unsigned
// reinterpretation of the mixing loop's final signed accumulator.
func Base(s *lcmast.Struct) uint64 {
	var fb fieldBytes
	for _, f := range s.Fields {
		fb.appendString(f.Name)
		if prim, ok := f.Type.(lcmast.PrimitiveType); ok {
			fb.appendString(string(prim))
		}
		fb.appendInt(int64(len(f.ArrayDims)))
		for _, d := range f.ArrayDims {
			if d.IsVariable {
				fb.appendInt(1)
			} else {
				fb.appendInt(0)
			}
			fb.appendString(d.Lexeme())
		}
	}
	return mix(fb.bytes)
}

// fieldBytes accumulates the byte-flattened input sequence: integers
// truncated to one byte, strings contributing a length byte (mod 256)
// followed by one byte per character (low 8 bits of each code point,
// matching LCM's reference generator rather than UTF-8 byte length).
type fieldBytes struct {
	bytes []byte
}

func (b *fieldBytes) appendInt(v int64) {
	b.bytes = append(b.bytes, byte(v&0xff))
}

func (b *fieldBytes) appendString(s string) {
	runes := []rune(s)
	b.bytes = append(b.bytes, byte(len(runes)&0xff))
	for _, r := range runes {
		b.bytes = append(b.bytes, byte(r&0xff))
	}
}

// mix runs the signed mixing loop starting from v = 0x12345678: for each
// byte, reinterpreted as a signed 8-bit value, v = ((v<<8) XOR (v>>55)) + c,
// with v re-truncated to 64 bits and then reinterpreted as signed after
// every step. The sign-reinterpretation is load-bearing: a pure-unsigned
// accumulator produces a different (wrong) hash, because
// ">>55" is an arithmetic (sign-extending) shift on the signed value.
func mix(data []byte) uint64 {
	v := int64(0x12345678)
	for _, c := range data {
		signed := int64(int8(c))
		v = ((v << 8) ^ (v >> 55)) + signed
	}
	return uint64(v)
}
