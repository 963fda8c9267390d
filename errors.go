// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernelgen

import "fmt"

// ConfigError reports invalid or inconsistent arguments. It is returned
// before any file is read or compiled.
type ConfigError struct {
	// Option is the command-line spelling of the offending argument.
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("option %s %s", e.Option, e.Reason)
}
