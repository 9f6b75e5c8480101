//go:build !darwin

// SPDX-License-Identifier: MIT
package purge

// DefaultPath is empty: only macOS ships a purge utility.
const DefaultPath = ""
