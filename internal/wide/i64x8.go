package wide

// I64x8 represents 8 int64 values, used for per-lane iteration counters.
type I64x8 [Lanes]int64

// SplatI64 creates I64x8 with all elements set to n.
func SplatI64(n int64) I64x8 {
	var result I64x8
	for i := range result {
		result[i] = n
	}
	return result
}

// SelectI64 returns a[i] where mask lane i is set, b[i] otherwise.
func SelectI64(mask Mask8, a, b I64x8) I64x8 {
	var result I64x8
	for i := range result {
		if mask&(1<<i) != 0 {
			result[i] = a[i]
		} else {
			result[i] = b[i]
		}
	}
	return result
}
