// SPDX-License-Identifier: MPL-2.0

// Package bundle serializes a module graph into one self-executing JavaScript
// program.
//
// The program is an immediately invoked function that receives a registry
// literal of the form
//
//	{ id: [function (require, module, exports) { body }, { "specifier": id }] }
//
// and defines require(id). Every require call runs the module body again with a
// fresh module object; there is no module cache, matching the graph, which
// never shares an asset between importers. A module's local require only looks
// its specifier up in that module's mapping; unknown specifiers throw an Error
// whose code is MODULE_NOT_MAPPED. The program ends by calling require(0).
package bundle
