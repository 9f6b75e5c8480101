// SPDX-License-Identifier: MIT

// Package meminfo samples the host's in-use physical memory from the
// kernel's virtual-memory page counters.
package meminfo

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrKernelQuery is returned (wrapped) whenever the page size or the
// virtual-memory statistics cannot be read from the kernel.
var ErrKernelQuery = errors.New("kernel memory query failed")

const bytesPerGB = 1073741824.0

// Counters is one reading of the kernel's page counters. All counts are in
// pages of PageSize bytes.
type Counters struct {
	// Pages recently referenced by processes.
	Active uint64
	// Pages that cannot be paged out (kernel, locked memory).
	Wired uint64
	// Pages occupied by the memory compressor. Zero on kernels without one.
	Compressed uint64
	// Size of a page in bytes, as reported by the kernel for this host.
	PageSize uint64
}

// Snapshot is the result of one sampling call. It is never updated; the next
// sample supersedes it.
type Snapshot struct {
	UsedBytes uint64
	Label     string
	Counters  Counters
}

// UsedPages is the number of pages counted as "used".
//
// Used memory is defined as active + wired + compressed. Inactive (cached)
// and free pages are left out because the kernel reclaims them on demand.
// This is an approximation and intentionally differs from the "used" figure
// some OS tools report.
func (c Counters) UsedPages() uint64 {
	return c.Active + c.Wired + c.Compressed
}

// UsedBytes is UsedPages scaled by the page size.
func (c Counters) UsedBytes() uint64 {
	return c.UsedPages() * c.PageSize
}

// FromCounters derives a Snapshot from a counter reading.
func FromCounters(c Counters) Snapshot {
	used := c.UsedBytes()
	return Snapshot{
		UsedBytes: used,
		Label:     FormatGB(used),
		Counters:  c,
	}
}

// FormatGB renders a byte count as gigabytes (2^30) with two decimals,
// e.g. "12.34 GB".
func FormatGB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/bytesPerGB)
}

// Sampler reads fresh kernel counters on every call to Sample.
type Sampler struct {
	read func() (*Counters, error)
}

// NewSampler returns a Sampler backed by this platform's kernel interface.
func NewSampler() *Sampler {
	return &Sampler{read: readCounters}
}

// Sample queries the kernel and derives a new Snapshot. Failures are wrapped
// in ErrKernelQuery and never fall back to an earlier value.
func (s *Sampler) Sample() (Snapshot, error) {
	c, err := s.read()
	if err != nil {
		if errors.Is(err, ErrKernelQuery) {
			return Snapshot{}, err
		}
		return Snapshot{}, errors.Wrap(ErrKernelQuery, err.Error())
	}
	if c.PageSize == 0 {
		return Snapshot{}, errors.Wrap(ErrKernelQuery, "kernel reported a zero page size")
	}
	return FromCounters(*c), nil
}

// Get takes a single sample using the platform's kernel interface.
func Get() (Snapshot, error) {
	return NewSampler().Sample()
}
