package config

import "fmt"

// DefaultSource supplies an alternate default for a setting. It is the
// capability interface behind deferred defaulting: a default that can only
// be computed from another subsystem's state (a numeric backend, typically)
// and whose construction is too expensive to perform unconditionally.
type DefaultSource interface {
	// DefaultFor returns the source's preferred value for the named setting.
	DefaultFor(name string) (any, error)
}

// DefaultSourceFunc adapts a plain function to the DefaultSource interface.
type DefaultSourceFunc func(name string) (any, error)

func (f DefaultSourceFunc) DefaultFor(name string) (any, error) { return f(name) }

// ApplyDeferredDefault conditionally replaces the default of name, gated on
// a boolean feature flag that is itself a setting resolved through this
// registry. Call it once, after LoadOverlay, so the flag sees overlay and
// environment values.
//
// When the flag resolves false, src is never touched. When it resolves
// true, src is consulted exactly once and its value replaces the DEFAULT
// tier of name only: an explicit, environment, or overlay value that
// already resolves ahead of the default keeps winning.
func (r *Registry) ApplyDeferredDefault(name, flag string, src DefaultSource) error {
	s, ok := r.settings[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	enabled, err := r.Bool(flag)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	if src == nil {
		return fmt.Errorf("deferred default for %q: flag %q is set but no source was provided", name, flag)
	}
	v, err := src.DefaultFor(name)
	if err != nil {
		return fmt.Errorf("deferred default for %q: %w", name, err)
	}
	s.def = raw{v: v, ok: true}
	return nil
}
