//go:build unix && !darwin

// SPDX-License-Identifier: MIT
package privilege

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionEnv(t *testing.T) {
	vars := map[string]string{
		"DISPLAY":                  ":0",
		"DBUS_SESSION_BUS_ADDRESS": "unix:path=/run/user/1000/bus",
		"HOME":                     "/home/alice",
	}
	env := sessionEnv(func(key string) string { return vars[key] })

	assert.Equal(t, []string{"DISPLAY=:0", "DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/1000/bus"}, env)
}

func TestSessionEnvEmpty(t *testing.T) {
	assert.Empty(t, sessionEnv(func(string) string { return "" }))
}
