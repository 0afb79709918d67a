// Package wide provides SIMD-friendly lane types for the escape-time kernel.
//
// The types are fixed-size arrays processed with simple loops so that the Go
// compiler can auto-vectorize them on supported architectures (SSE, AVX,
// NEON). Eight float64 lanes match one AVX-512 register.
//
// # Wide Types
//
// F64x8: 8 float64 values for the complex orbit arithmetic.
// I64x8: 8 int64 values for per-lane iteration counts.
// Mask8: one bit per lane, selecting which lanes an operation affects.
//
// # Rounding
//
// Every product is explicitly converted to float64 before it is stored. Go
// permits fusing x*y+z into a single FMA; the conversion forbids it, so lane
// results are bit-identical to a scalar loop that does the same.
//
// # Usage Example
//
//	active := wide.MaskAll
//	m := zr.Mul(zr).Add(zi.Mul(zi))
//	active = active.And(m.Less(bailout))
//	zr = wide.Select(active, next, zr)
package wide
