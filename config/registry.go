package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dathinab/fuel/config/streams"
)

// Exported error categories returned by this package. These are used with
// wrapping so callers can detect error classes using errors.Is.
//   - ErrUnknownSetting: a name that was never registered, either passed to
//     Get/Set directly or found in an overlay file.
//   - ErrNotSet: Get found no source and the setting has no default.
//   - ErrCoerce: the setting's coercion function rejected the matched raw
//     value, or a typed accessor saw a value of the wrong type.
//   - ErrParse: the overlay file exists but is not valid YAML.
var (
	ErrUnknownSetting = errors.New("unrecognized setting")
	ErrNotSet         = errors.New("configuration not set and no default provided")
	ErrCoerce         = errors.New("coerce setting")
	ErrParse          = errors.New("parse overlay file")
)

// raw is a tagged optional holding an untyped source value. The ok flag
// distinguishes "absent" from "present but nil".
type raw struct {
	v  any
	ok bool
}

// setting is one registered configuration key with its per-source slots.
// Each slot keeps the raw value; coercion happens on every read.
type setting struct {
	coerce   Coercion
	envVar   string
	def      raw
	overlay  raw
	explicit raw
}

// resolve returns the highest-precedence raw value available for s.
func (s *setting) resolve() (any, bool) {
	if s.explicit.ok {
		return s.explicit.v, true
	}
	if s.envVar != "" {
		if v, ok := os.LookupEnv(s.envVar); ok {
			return v, true
		}
	}
	if s.overlay.ok {
		return s.overlay.v, true
	}
	if s.def.ok {
		return s.def.v, true
	}
	return nil, false
}

// Registry is the in-memory table of setting definitions plus the resolution
// algorithm. Construct one with New, register settings, load the overlay
// once, then read freely. See the package documentation for the precedence
// rules and the concurrency limitation.
type Registry struct {
	envPrefix   string
	overlayName string
	streams     streams.IOStreams
	settings    map[string]*setting
}

// Option configures a Registry at construction time. Options are composable
// and can be passed to New in any order.
type Option func(*Registry)

// New constructs an empty Registry and applies all given options.
func New(opts ...Option) *Registry {
	r := &Registry{settings: make(map[string]*setting)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithEnvPrefix sets the prefix used to locate the overlay file override,
// e.g. "FUEL". When set, the Registry honors ${PREFIX}_CONFIG_PATH as the
// path to the overlay file, which takes precedence over the home-directory
// location. Panics if prefix is empty.
func WithEnvPrefix(prefix string) Option {
	return func(r *Registry) {
		if prefix == "" {
			panic("config: WithEnvPrefix: prefix cannot be empty")
		}
		r.envPrefix = prefix
	}
}

// WithOverlayName sets the overlay file name looked up in the user's home
// directory when no ${PREFIX}_CONFIG_PATH override is present, e.g.
// ".fuelrc". Without this option (and without an override variable)
// LoadOverlay is a no-op. Panics if name is empty.
func WithOverlayName(name string) Option {
	return func(r *Registry) {
		if name == "" {
			panic("config: WithOverlayName: name cannot be empty")
		}
		r.overlayName = name
	}
}

// WithStreams wires user-facing message streams (e.g., for "loaded overlay
// from" notices and non-fatal warnings). Pass adapters from the companion
// streams package to route output to buffers, logs, or io.Discard.
func WithStreams(s streams.IOStreams) Option {
	return func(r *Registry) {
		r.streams = s
	}
}

// SettingOption configures a single setting at registration time.
type SettingOption func(*setting)

// WithDefault registers a default raw value, used when no explicit,
// environment, or overlay source resolves. Like every other source, the
// value is passed through the setting's coercion function on read, so a raw
// string is as acceptable as an already-typed value.
func WithDefault(v any) SettingOption {
	return func(s *setting) {
		s.def = raw{v: v, ok: true}
	}
}

// WithEnvVar registers the environment variable consulted for this setting.
// Without it the setting can only come from Set, the overlay file, or its
// default. Panics if name is empty.
func WithEnvVar(name string) SettingOption {
	return func(s *setting) {
		if name == "" {
			panic("config: WithEnvVar: name cannot be empty")
		}
		s.envVar = name
	}
}

// Register adds a setting definition. The name must be a valid identifier
// (letters, digits, underscores, not starting with a digit) and coerce must
// be non-nil and total over both string and already-typed inputs for this
// setting; violations panic, as they are programming errors, not runtime
// conditions.
//
// Registering a name twice overwrites the previous definition, including any
// overlay or explicit value it had accumulated. Nothing resolves at
// registration time: a missing default only becomes an error when the
// setting is first read with no other source present.
func (r *Registry) Register(name string, coerce Coercion, opts ...SettingOption) {
	if !validName(name) {
		panic(fmt.Sprintf("config: Register: invalid setting name %q", name))
	}
	if coerce == nil {
		panic(fmt.Sprintf("config: Register: nil coercion for setting %q", name))
	}
	s := &setting{coerce: coerce}
	for _, opt := range opts {
		opt(s)
	}
	r.settings[name] = s
}

// Set stores an explicit override for a registered setting. It
// unconditionally wins over every other source on subsequent reads; the
// stored value is coerced at read time exactly like values from any other
// source.
func (r *Registry) Set(name string, v any) error {
	s, ok := r.settings[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	s.explicit = raw{v: v, ok: true}
	return nil
}

// Get resolves a setting by precedence (explicit, environment, overlay,
// default) and returns the coerced value. It returns ErrUnknownSetting for
// names that were never registered, ErrNotSet when no source matches, and
// ErrCoerce (wrapping the coercion function's error) when the matched raw
// value is malformed. Every call re-evaluates the sources; nothing is
// cached.
func (r *Registry) Get(name string) (any, error) {
	s, ok := r.settings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	rawVal, ok := s.resolve()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSet, name)
	}
	v, err := s.coerce(rawVal)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrCoerce, name, err)
	}
	return v, nil
}

// String resolves name and asserts the coerced value is a string.
func (r *Registry) String(name string) (string, error) {
	v, err := r.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w %q: %T is not a string", ErrCoerce, name, v)
	}
	return s, nil
}

// Int resolves name and asserts the coerced value is an int.
func (r *Registry) Int(name string) (int, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%w %q: %T is not an int", ErrCoerce, name, v)
	}
	return n, nil
}

// Bool resolves name and asserts the coerced value is a bool.
func (r *Registry) Bool(name string) (bool, error) {
	v, err := r.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w %q: %T is not a bool", ErrCoerce, name, v)
	}
	return b, nil
}

// Float resolves name and asserts the coerced value is a float64.
func (r *Registry) Float(name string) (float64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w %q: %T is not a float64", ErrCoerce, name, v)
	}
	return f, nil
}

// Strings resolves name and asserts the coerced value is a []string.
func (r *Registry) Strings(name string) ([]string, error) {
	v, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	ss, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("%w %q: %T is not a []string", ErrCoerce, name, v)
	}
	return ss, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
