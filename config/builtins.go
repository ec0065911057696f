package config

// Names of the settings the library registers on its registry. Exported so
// the rest of the codebase reads settings by constant rather than by string
// literal.
const (
	// SettingDataPath is where dataset files are stored: an ordered list of
	// directories, configurable as a single delimiter-separated string via
	// FUEL_DATA_PATH.
	SettingDataPath = "data_path"

	// SettingDefaultSeed is the seed used by randomness-consuming components
	// (iteration schemes, converters) when the caller does not supply one.
	SettingDefaultSeed = "default_seed"

	// SettingExtraDownloaders and SettingExtraConverters list extra package
	// names contributing downloaders/converters, space-separated when given
	// as a string.
	SettingExtraDownloaders = "extra_downloaders"
	SettingExtraConverters  = "extra_converters"

	// SettingFloatX is the default floating-point dtype. Its registered
	// default is "float64", but when SettingUseBackend resolves true the
	// numeric backend's preferred dtype replaces that default at bootstrap.
	SettingFloatX = "floatx"

	// SettingUseBackend gates consulting the numeric backend at all. Set it
	// to false when no backend is installed.
	SettingUseBackend = "use_backend"
)

const (
	envPrefix       = "FUEL"
	overlayFileName = ".fuelrc"
)

// RegisterBuiltins registers the library's settings on r.
func RegisterBuiltins(r *Registry) {
	r.Register(SettingDataPath, PathList, WithEnvVar("FUEL_DATA_PATH"))
	r.Register(SettingDefaultSeed, Int, WithDefault(1))
	r.Register(SettingExtraDownloaders, SpaceList,
		WithDefault([]string{}), WithEnvVar("FUEL_EXTRA_DOWNLOADERS"))
	r.Register(SettingExtraConverters, SpaceList,
		WithDefault([]string{}), WithEnvVar("FUEL_EXTRA_CONVERTERS"))
	r.Register(SettingFloatX, String,
		WithDefault("float64"), WithEnvVar("FUEL_FLOATX"))
	r.Register(SettingUseBackend, Bool(true),
		WithDefault(true), WithEnvVar("FUEL_USE_BACKEND"))
}

// Bootstrap prepares r for use by the library: it registers the builtin
// settings, loads the overlay file, and, when SettingUseBackend resolves
// true, replaces the floatx default with the backend's preferred value.
//
// backend may be nil when the caller has no numeric backend to offer; the
// deferred default is then skipped and the registered "float64" default
// stands. A non-nil backend is consulted lazily, only in the true branch:
// constructing one typically has global side effects (device binding), so
// it must never happen unconditionally.
func Bootstrap(r *Registry, backend DefaultSource) error {
	RegisterBuiltins(r)
	if err := r.LoadOverlay(); err != nil {
		return err
	}
	if backend == nil {
		return nil
	}
	return r.ApplyDeferredDefault(SettingFloatX, SettingUseBackend, backend)
}

var std = New(WithEnvPrefix(envPrefix), WithOverlayName(overlayFileName))

// Default returns the process-wide Registry shared by code that does not
// receive one by injection. Callers are expected to Bootstrap it once at
// startup. Constructing and passing your own Registry with New remains the
// primary design; this binding exists for call sites where threading one
// through is impractical.
func Default() *Registry { return std }
