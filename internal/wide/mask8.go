package wide

import "math/bits"

// Mask8 holds one bit per lane; bit i corresponds to lane i.
type Mask8 uint8

// MaskAll has every lane set.
const MaskAll Mask8 = 0xFF

// Any reports whether at least one lane is set.
func (m Mask8) Any() bool { return m != 0 }

// Has reports whether lane i is set.
func (m Mask8) Has(i int) bool { return m&(1<<i) != 0 }

// And returns lanes set in both m and other.
func (m Mask8) And(other Mask8) Mask8 { return m & other }

// AndNot returns lanes set in m but not in other.
func (m Mask8) AndNot(other Mask8) Mask8 { return m &^ other }

// Count returns the number of set lanes.
func (m Mask8) Count() int { return bits.OnesCount8(uint8(m)) }
