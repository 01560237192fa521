package config

import "gopkg.in/yaml.v3"

// CompilerOptions tunes the behavior of the type checker. It is
// deserialized from bytes the caller already has in
// memory -- this module never opens a file itself, matching the rest
// of the pipeline's no-I/O rule.
type CompilerOptions struct {
	// MaxDiagnostics caps how many diagnostics a checking pass
	// records, to bound pathological cascades: later ones are dropped
	// while the pass still runs to completion. Zero means unlimited.
	MaxDiagnostics int `yaml:"max_diagnostics"`
}

// DefaultOptions returns the options used when a caller supplies none.
func DefaultOptions() CompilerOptions {
	return CompilerOptions{
		MaxDiagnostics: 0,
	}
}

// LoadOptions decodes CompilerOptions from an in-memory YAML document.
func LoadOptions(data []byte) (CompilerOptions, error) {
	opts := DefaultOptions()
	if len(data) == 0 {
		return opts, nil
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return CompilerOptions{}, err
	}
	return opts, nil
}
