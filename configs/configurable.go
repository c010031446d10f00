package configs

// Configurable is a setting type read from the config file at ConfigPath.
type Configurable interface {
	ConfigPath() string
}

// Lookup returns the first value of the setting, or the zero value when no file sets it.
func Lookup[T Configurable](loader Loader) T {
	var zero T
	return First[T](loader, zero.ConfigPath())
}
