// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	meminfo "github.com/renehsz/memtray"
	"github.com/renehsz/memtray/internal/privilege"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testSnapshot = meminfo.FromCounters(meminfo.Counters{
	Active:     393216,
	Wired:      131072,
	Compressed: 0,
	PageSize:   4096,
})

func TestWriteSampleLabel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSample(&buf, testSnapshot, sampleOptions{}))
	assert.Equal(t, "2.00 GB\n", buf.String())
}

func TestWriteSampleJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSample(&buf, testSnapshot, sampleOptions{json: true}))

	out := buf.String()
	require.True(t, gjson.Valid(out))
	assert.Equal(t, uint64(2147483648), gjson.Get(out, "used_bytes").Uint())
	assert.Equal(t, "2.00 GB", gjson.Get(out, "label").String())
	assert.Equal(t, uint64(393216), gjson.Get(out, "counters.active_pages").Uint())
	assert.Equal(t, uint64(131072), gjson.Get(out, "counters.wired_pages").Uint())
	assert.Equal(t, uint64(0), gjson.Get(out, "counters.compressed_pages").Uint())
	assert.Equal(t, uint64(4096), gjson.Get(out, "counters.page_size").Uint())
}

func TestWriteSampleVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSample(&buf, testSnapshot, sampleOptions{verbose: true}))

	out := buf.String()
	assert.Contains(t, out, "2.00 GB\n")
	assert.Contains(t, out, "1.5GiB")
	assert.Contains(t, out, "512MiB")
	assert.Contains(t, out, "page size  4096 bytes")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 0, exitCode(privilege.ErrHandedOff))
	assert.Equal(t, 1, exitCode(errors.Wrap(privilege.ErrElevationFailed, "User canceled.")))
	assert.Equal(t, 1, exitCode(errors.New("lock held")))
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.NotNil(t, cmd.Flags().Lookup("headless"))
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["sample"])
	assert.True(t, names["purge"])
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)
	logSink{log: log}.SetLabel("1.00 GB")
	assert.Contains(t, buf.String(), "label=\"1.00 GB\"")
}
