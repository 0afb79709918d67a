package mandel

import "fmt"

// KernelMode controls which kernel implementation Render uses.
//
// The default is KernelAuto. Force modes bypass the selection and always use
// one implementation. Both produce identical samples; the choice only
// affects speed.
//
// Use cases for force modes:
//   - Debugging: force the scalar kernel to isolate lane bugs
//   - Benchmarking: compare implementations on the same workload
type KernelMode int

const (
	// KernelAuto uses the wide kernel unless thread-tiles are so narrow that
	// most lanes of a batch would be discarded.
	KernelAuto KernelMode = iota

	// KernelWide forces the 8-lane kernel for every batch.
	KernelWide

	// KernelScalar forces the per-pixel scalar kernel.
	KernelScalar
)

// String returns the kernel mode name.
func (m KernelMode) String() string {
	switch m {
	case KernelAuto:
		return "auto"
	case KernelWide:
		return "wide"
	case KernelScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// ParseKernelMode returns the mode named by s, as printed by String.
func ParseKernelMode(s string) (KernelMode, error) {
	for _, m := range []KernelMode{KernelAuto, KernelWide, KernelScalar} {
		if m.String() == s {
			return m, nil
		}
	}
	return KernelAuto, fmt.Errorf("mandel: unknown kernel mode %q", s)
}

// resolve picks the concrete implementation for thread-tiles threadWidth
// pixels wide.
func (m KernelMode) resolve(threadWidth uint64) KernelMode {
	if m != KernelAuto {
		return m
	}
	if threadWidth < BatchSize/2 {
		return KernelScalar
	}
	return KernelWide
}
