package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("configuration is missing required property: %s", e.Property)
}

type InvalidPropertyError struct {
	Property string
	Value    string
	Reason   string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("configuration property %s has invalid value '%s': %s", e.Property, e.Value, e.Reason)
}

type InvalidEnvironmentError struct {
	Wrapped error
}

func (e *InvalidEnvironmentError) Error() string {
	return fmt.Sprintf("invalid %s environment configuration: %v", EnvPrefix, e.Wrapped)
}

func (e *InvalidEnvironmentError) Unwrap() error {
	return e.Wrapped
}
