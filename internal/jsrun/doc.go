// SPDX-License-Identifier: MPL-2.0

// Package jsrun executes an emitted bundle in an embedded JavaScript
// interpreter (goja). It provides a minimal console object and converts
// thrown exceptions into Go errors, so that the bundle's module lookup
// failures surface as *RuntimeLookupError.
package jsrun
