// SPDX-License-Identifier: MIT

// Command memtray shows the host's in-use physical memory in the status bar
// and offers a menu action to purge inactive memory.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
