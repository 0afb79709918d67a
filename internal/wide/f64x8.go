package wide

// Lanes is the number of lanes in every wide type.
const Lanes = 8

// F64x8 represents 8 float64 values for SIMD-style operations.
// Designed for Go compiler auto-vectorization with fixed-size arrays.
type F64x8 [Lanes]float64

// SplatF64 creates F64x8 with all elements set to n.
func SplatF64(n float64) F64x8 {
	var result F64x8
	for i := range result {
		result[i] = n
	}
	return result
}

// RampF64 creates F64x8 with element i set to base + i.
// base is expected to be an integral value below 2^53 so every lane is exact.
func RampF64(base uint64) F64x8 {
	var result F64x8
	for i := range result {
		result[i] = float64(base + uint64(i))
	}
	return result
}

// Add performs element-wise addition.
func (v F64x8) Add(other F64x8) F64x8 {
	var result F64x8
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Sub performs element-wise subtraction.
func (v F64x8) Sub(other F64x8) F64x8 {
	var result F64x8
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

// Mul performs element-wise multiplication.
// The product is rounded to float64 and never fused with a following Add.
func (v F64x8) Mul(other F64x8) F64x8 {
	var result F64x8
	for i := range v {
		result[i] = float64(v[i] * other[i])
	}
	return result
}

// Div performs element-wise division.
// Note: Division by zero results in +Inf, -Inf, or NaN according to IEEE 754.
func (v F64x8) Div(other F64x8) F64x8 {
	var result F64x8
	for i := range v {
		result[i] = v[i] / other[i]
	}
	return result
}

// Less returns a mask with lane i set when v[i] < other[i].
// NaN lanes compare false.
func (v F64x8) Less(other F64x8) Mask8 {
	var m Mask8
	for i := range v {
		if v[i] < other[i] {
			m |= 1 << i
		}
	}
	return m
}

// Select returns a lane-wise blend: a[i] where mask lane i is set, b[i] otherwise.
func Select(mask Mask8, a, b F64x8) F64x8 {
	var result F64x8
	for i := range result {
		if mask&(1<<i) != 0 {
			result[i] = a[i]
		} else {
			result[i] = b[i]
		}
	}
	return result
}
