// SPDX-License-Identifier: MIT
package privilege

import "strings"

// shellQuote quotes s for /bin/sh using single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// detachedCommand builds a /bin/sh command line that starts exe in the
// background with output discarded, so the shell itself exits at once.
// env entries ("KEY=value") are set through env(1).
func detachedCommand(exe string, args, env []string) string {
	words := make([]string, 0, len(env)+len(args)+2)
	if len(env) > 0 {
		words = append(words, "env")
		for _, kv := range env {
			words = append(words, shellQuote(kv))
		}
	}
	words = append(words, shellQuote(exe))
	for _, a := range args {
		words = append(words, shellQuote(a))
	}
	return strings.Join(words, " ") + " > /dev/null 2>&1 &"
}

// relaunchScript builds the AppleScript that runs exe detached under
// administrator privileges.
func relaunchScript(exe string, args []string) string {
	return "do shell script " + appleScriptString(detachedCommand(exe, args, nil)) + " with administrator privileges"
}
