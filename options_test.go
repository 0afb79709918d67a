package mandel

import "testing"

func TestDefaultRenderOptions(t *testing.T) {
	o := defaultRenderOptions()
	if o.workers != 0 {
		t.Errorf("workers = %d, want 0", o.workers)
	}
	if o.mode != KernelAuto {
		t.Errorf("mode = %v, want auto", o.mode)
	}
	if o.hook != nil {
		t.Error("hook should be nil by default")
	}
}

func TestRenderOptions_Apply(t *testing.T) {
	called := false
	opts := []RenderOption{
		WithWorkers(3),
		WithKernelMode(KernelScalar),
		WithTileHook(func(uint64, *Job) error { called = true; return nil }),
	}

	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.workers != 3 {
		t.Errorf("workers = %d, want 3", o.workers)
	}
	if o.mode != KernelScalar {
		t.Errorf("mode = %v, want scalar", o.mode)
	}
	if o.hook == nil {
		t.Fatal("hook not installed")
	}
	_ = o.hook(0, nil)
	if !called {
		t.Error("installed hook was not the one passed")
	}
}
