package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadOverlay reads the overlay file once and stores its values in the
// registry's overlay tier.
//
// The path is resolved from ${PREFIX}_CONFIG_PATH when WithEnvPrefix was
// given and the variable is set, otherwise from the user's home directory
// and the WithOverlayName file name. If neither yields a path, or the
// resolved file does not exist, LoadOverlay is a no-op: absence of an
// overlay file is not an error.
//
// The file must be a flat YAML mapping of setting names to values. Every
// key is checked against the registry before any value is applied, so an
// unregistered key fails with ErrUnknownSetting without mutating any
// setting. Applied values never replace an overlay value stored by an
// earlier call; calling LoadOverlay twice against a changed file is not
// supported and the stale values win. This mirrors the single-load
// lifecycle: register, load once, then read.
func (r *Registry) LoadOverlay() error {
	path, err := r.resolveOverlayPath()
	if err != nil || path == "" {
		return err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w %s: %w", ErrParse, path, err)
	}

	// Validate every key before applying any value. Map iteration order is
	// not deterministic, so partial application on a bad key would mutate a
	// random subset of settings.
	for name := range values {
		if _, ok := r.settings[name]; !ok {
			return fmt.Errorf("%w in %s: %s", ErrUnknownSetting, path, name)
		}
	}
	for name, v := range values {
		s := r.settings[name]
		if !s.overlay.ok {
			s.overlay = raw{v: v, ok: true}
		}
	}

	if r.streams != nil && r.streams.Out() != nil {
		fmt.Fprintf(r.streams.Out(), "config: loaded overlay from %s\n", path)
	}
	return nil
}

func (r *Registry) resolveOverlayPath() (string, error) {
	if r.envPrefix != "" {
		if p := os.Getenv(r.envPrefix + "_CONFIG_PATH"); p != "" {
			return p, nil
		}
	}
	if r.overlayName == "" {
		// No home-directory overlay configured.
		return "", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Not fatal: the overlay file is optional, so proceed without one,
		// but tell the user when streams are wired.
		if r.streams != nil && r.streams.ErrOut() != nil {
			fmt.Fprintf(
				r.streams.ErrOut(),
				"config: warning: cannot determine home dir (%v); proceeding without an overlay file\n",
				err,
			)
		}
		return "", nil
	}
	return filepath.Join(home, r.overlayName), nil
}
