// SPDX-License-Identifier: MIT
package purge

// DefaultPath is the macOS utility that flushes the disk cache and
// inactive memory.
const DefaultPath = "/usr/sbin/purge"
