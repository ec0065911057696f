package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// countingSource records how often it is consulted.
type countingSource struct {
	value any
	err   error
	calls int
}

func (s *countingSource) DefaultFor(string) (any, error) {
	s.calls++
	return s.value, s.err
}

func newDeferredRegistry(flagDefault any) *Registry {
	r := New(WithEnvPrefix("DEFTEST"))
	r.Register("dtype", String, WithDefault("float64"), WithEnvVar("DEFTEST_DTYPE"))
	r.Register("use_backend", Bool(true), WithDefault(flagDefault), WithEnvVar("DEFTEST_USE_BACKEND"))
	return r
}

func TestRegistry_ApplyDeferredDefault(t *testing.T) {
	t.Run("flag true replaces the default tier", func(t *testing.T) {
		unsetenv(t, "DEFTEST_DTYPE")
		unsetenv(t, "DEFTEST_USE_BACKEND")
		r := newDeferredRegistry(true)
		src := &countingSource{value: "float32"}
		if err := r.ApplyDeferredDefault("dtype", "use_backend", src); err != nil {
			t.Fatalf("ApplyDeferredDefault: %v", err)
		}
		if src.calls != 1 {
			t.Fatalf("source consulted %d times, want exactly once", src.calls)
		}
		if got, err := r.String("dtype"); err != nil || got != "float32" {
			t.Fatalf("dtype = (%q, %v), want (float32, nil)", got, err)
		}
	})

	t.Run("flag false never touches the source", func(t *testing.T) {
		unsetenv(t, "DEFTEST_DTYPE")
		unsetenv(t, "DEFTEST_USE_BACKEND")
		r := newDeferredRegistry(false)
		src := &countingSource{value: "float32"}
		if err := r.ApplyDeferredDefault("dtype", "use_backend", src); err != nil {
			t.Fatalf("ApplyDeferredDefault: %v", err)
		}
		if src.calls != 0 {
			t.Fatalf("source consulted %d times, want zero", src.calls)
		}
		if got, err := r.String("dtype"); err != nil || got != "float64" {
			t.Fatalf("dtype = (%q, %v), want (float64, nil)", got, err)
		}
	})

	t.Run("flag resolves through the engine, not just its default", func(t *testing.T) {
		unsetenv(t, "DEFTEST_DTYPE")
		// Default says true, but the environment turns the feature off.
		t.Setenv("DEFTEST_USE_BACKEND", "false")
		r := newDeferredRegistry(true)
		src := &countingSource{value: "float32"}
		if err := r.ApplyDeferredDefault("dtype", "use_backend", src); err != nil {
			t.Fatalf("ApplyDeferredDefault: %v", err)
		}
		if src.calls != 0 {
			t.Fatalf("source consulted %d times, want zero", src.calls)
		}
	})

	t.Run("substitution never shadows higher-precedence sources", func(t *testing.T) {
		unsetenv(t, "DEFTEST_USE_BACKEND")
		t.Setenv("DEFTEST_DTYPE", "float16")
		r := newDeferredRegistry(true)
		if err := r.ApplyDeferredDefault("dtype", "use_backend", &countingSource{value: "float32"}); err != nil {
			t.Fatalf("ApplyDeferredDefault: %v", err)
		}
		if got, err := r.String("dtype"); err != nil || got != "float16" {
			t.Fatalf("dtype = (%q, %v), want env value (float16, nil)", got, err)
		}
	})

	t.Run("overlay value stays ahead of the substituted default", func(t *testing.T) {
		unsetenv(t, "DEFTEST_DTYPE")
		unsetenv(t, "DEFTEST_USE_BACKEND")
		p := filepath.Join(t.TempDir(), "overlay.yml")
		writeFile(t, p, "dtype: float8\n")
		t.Setenv("DEFTEST_CONFIG_PATH", p)
		r := newDeferredRegistry(true)
		if err := r.LoadOverlay(); err != nil {
			t.Fatalf("LoadOverlay: %v", err)
		}
		if err := r.ApplyDeferredDefault("dtype", "use_backend", &countingSource{value: "float32"}); err != nil {
			t.Fatalf("ApplyDeferredDefault: %v", err)
		}
		if got, err := r.String("dtype"); err != nil || got != "float8" {
			t.Fatalf("dtype = (%q, %v), want overlay value (float8, nil)", got, err)
		}
	})

	t.Run("nil source with flag true is an error", func(t *testing.T) {
		unsetenv(t, "DEFTEST_USE_BACKEND")
		r := newDeferredRegistry(true)
		err := r.ApplyDeferredDefault("dtype", "use_backend", nil)
		if err == nil || !strings.Contains(err.Error(), "no source") {
			t.Fatalf("err = %v, want no-source error", err)
		}
	})

	t.Run("unknown setting name", func(t *testing.T) {
		r := newDeferredRegistry(true)
		err := r.ApplyDeferredDefault("nope", "use_backend", &countingSource{})
		if !errors.Is(err, ErrUnknownSetting) {
			t.Fatalf("err = %v, want ErrUnknownSetting", err)
		}
	})

	t.Run("unknown flag name", func(t *testing.T) {
		r := newDeferredRegistry(true)
		err := r.ApplyDeferredDefault("dtype", "nope", &countingSource{})
		if !errors.Is(err, ErrUnknownSetting) {
			t.Fatalf("err = %v, want ErrUnknownSetting", err)
		}
	})

	t.Run("source error propagates", func(t *testing.T) {
		unsetenv(t, "DEFTEST_USE_BACKEND")
		r := newDeferredRegistry(true)
		src := &countingSource{err: errors.New("device busy")}
		err := r.ApplyDeferredDefault("dtype", "use_backend", src)
		if err == nil || !strings.Contains(err.Error(), "device busy") {
			t.Fatalf("err = %v, want wrapped source error", err)
		}
		// The failed substitution must not clobber the registered default.
		unsetenv(t, "DEFTEST_DTYPE")
		if got, gerr := r.String("dtype"); gerr != nil || got != "float64" {
			t.Fatalf("dtype = (%q, %v), want (float64, nil)", got, gerr)
		}
	})
}

func TestDefaultSourceFunc(t *testing.T) {
	src := DefaultSourceFunc(func(name string) (any, error) {
		return name + "-preferred", nil
	})
	v, err := src.DefaultFor("dtype")
	if err != nil || v != "dtype-preferred" {
		t.Fatalf("DefaultFor = (%v, %v)", v, err)
	}
}
