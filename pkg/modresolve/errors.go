// SPDX-License-Identifier: MPL-2.0

package modresolve

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModuleNotFound is the sentinel error wrapped by NotFoundError.
var ErrModuleNotFound = errors.New("module not found")

// NotFoundError is returned when every resolution layer reported "no match".
// Layers lists the layer names consulted, in precedence order, so the caller
// can see exactly what was tried.
type NotFoundError struct {
	ModuleID string
	Layers   []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found (layers consulted, in order: %s)",
		e.ModuleID, strings.Join(e.Layers, ", "))
}

// Unwrap returns ErrModuleNotFound so callers can use errors.Is for
// programmatic detection.
func (e *NotFoundError) Unwrap() error { return ErrModuleNotFound }
