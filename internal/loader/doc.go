// SPDX-License-Identifier: MPL-2.0

// Package loader resolves an extensionless module path to the content of a
// file on disk.
//
// Resolution lists the directory that contains the path and picks the first
// file whose name begins with the path's base name. Both halves are pluggable:
// a Lister decides which names exist and in which order, a Matcher decides which
// of them wins. The default pairing (FSLister + PrefixMatch) takes the first
// match in lexical order, so with both "a.js" and "a.ts" present "a.js" is
// chosen, and "./a" can also resolve to "ab.js" if it sorts first. That
// ambiguity is deliberate and is not disambiguated here.
package loader
