// SPDX-License-Identifier: MIT
package meminfo

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSource(c Counters) func() (*Counters, error) {
	return func() (*Counters, error) {
		out := c
		return &out, nil
	}
}

func TestUsedBytesIsPagesTimesPageSize(t *testing.T) {
	tests := []struct {
		name string
		c    Counters
		want uint64
	}{
		{"zero", Counters{PageSize: 4096}, 0},
		{"4k pages", Counters{Active: 100, Wired: 20, Compressed: 3, PageSize: 4096}, 123 * 4096},
		{"16k pages", Counters{Active: 262144, Wired: 65536, Compressed: 1, PageSize: 16384}, 327681 * 16384},
		{"no compressor", Counters{Active: 7, Wired: 5, PageSize: 65536}, 12 * 65536},
		{"large host", Counters{Active: 1 << 40, Wired: 1 << 40, Compressed: 1 << 40, PageSize: 65536}, 3 << 56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.UsedBytes())
			assert.Equal(t, tt.want, FromCounters(tt.c).UsedBytes)
		})
	}
}

func TestFormatGB(t *testing.T) {
	assert.Equal(t, "0.00 GB", FormatGB(0))
	assert.Equal(t, "1.00 GB", FormatGB(1073741824))
	assert.Equal(t, "2.00 GB", FormatGB(2147483648))
	assert.Equal(t, "12.34 GB", FormatGB(13249974108))
	assert.Equal(t, "0.50 GB", FormatGB(1<<29))
}

func TestSampleDerivesSnapshot(t *testing.T) {
	c := Counters{Active: 200000, Wired: 50000, Compressed: 12144, PageSize: 4096}
	s := &Sampler{read: fixedSource(c)}

	snap, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, uint64(262144*4096), snap.UsedBytes)
	assert.Equal(t, "1.00 GB", snap.Label)
	assert.Equal(t, c, snap.Counters)
}

func TestSampleIsPureFunctionOfCounters(t *testing.T) {
	s := &Sampler{read: fixedSource(Counters{Active: 1, Wired: 2, Compressed: 3, PageSize: 16384})}

	first, err := s.Sample()
	require.NoError(t, err)
	second, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampleSurfacesKernelError(t *testing.T) {
	s := &Sampler{read: func() (*Counters, error) {
		return nil, errors.New("kern_return_t 5")
	}}

	snap, err := s.Sample()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKernelQuery))
	assert.Contains(t, err.Error(), "kern_return_t 5")
	assert.Equal(t, Snapshot{}, snap)
}

func TestSampleKeepsWrappedKernelError(t *testing.T) {
	wrapped := errors.Wrap(ErrKernelQuery, "sysctl(\"hw.pagesize\")")
	s := &Sampler{read: func() (*Counters, error) { return nil, wrapped }}

	_, err := s.Sample()
	assert.Equal(t, wrapped, err)
}

func TestSampleRejectsZeroPageSize(t *testing.T) {
	s := &Sampler{read: fixedSource(Counters{Active: 10})}

	_, err := s.Sample()
	assert.True(t, errors.Is(err, ErrKernelQuery))
}
