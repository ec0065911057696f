// Package config implements the layered settings resolver used across the
// library.
//
// Every setting is registered once with a name, a coercion function, and
// optionally a default value and an environment variable. Reads resolve the
// value by precedence, first match wins:
//  1. Explicit in-process assignment via Set.
//  2. The setting's environment variable, when registered and present.
//  3. The overlay file loaded by LoadOverlay.
//  4. The registered default.
//
// The matched raw value is passed through the setting's coercion function on
// every read, so environment strings and already-typed overlay values yield
// the same canonical type.
//
// The overlay file is a flat YAML mapping of setting names to values:
//
//	data_path: /home/user/datasets
//
// Its location is ${PREFIX}_CONFIG_PATH when that variable is set, otherwise
// a dot-file in the user's home directory named at construction time. A
// missing file is not an error; a file containing an unregistered key is.
//
// A setting with no default and no other source fails at read time with
// ErrNotSet, never silently with a zero value. Malformed raw values fail
// with ErrCoerce.
//
// Typical usage:
//
//	r := config.New(
//	    config.WithEnvPrefix("FUEL"),
//	    config.WithOverlayName(".fuelrc"),
//	)
//	r.Register("data_path", config.PathList, config.WithEnvVar("FUEL_DATA_PATH"))
//	if err := r.LoadOverlay(); err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := r.Strings("data_path")
//
// A Registry is not safe for concurrent mutation. Registration, overlay
// loading, and deferred-default application are expected to happen during
// startup, before concurrent reads begin; Set after that point requires
// external synchronization. This is a documented limitation, not a contract.
package config
