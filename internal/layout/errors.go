// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import "fmt"

// Error reports a shader parameter that cannot be represented in the
// layout.
type Error struct {
	Parameter string
	Reason    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid shader layout: parameter %q: %s", e.Parameter, e.Reason)
}
