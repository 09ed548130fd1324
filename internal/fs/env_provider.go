package fs

import (
	"os"
)

// EnvProvider provides environment variable access. It satisfies
// envconfig.Lookuper so that configuration overrides can be read through it.
type EnvProvider interface {
	// Get returns the value of the environment variable named by the key.
	Get(key string) string
	// Lookup returns the value of the variable and whether it is set.
	Lookup(key string) (string, bool)
}

// OSEnvProvider reads from the actual environment using os.Getenv.
type OSEnvProvider struct{}

// NewEnvProvider creates a new OSEnvProvider.
func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

// Get returns the value of the environment variable named by the key.
func (e *OSEnvProvider) Get(key string) string {
	return os.Getenv(key)
}

// Lookup returns the value of the environment variable and whether it is set.
func (e *OSEnvProvider) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvProvider serves variables from a fixed map.
type MapEnvProvider map[string]string

// Get returns the value stored for key, or "".
func (m MapEnvProvider) Get(key string) string {
	return m[key]
}

// Lookup returns the value stored for key and whether it exists.
func (m MapEnvProvider) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
