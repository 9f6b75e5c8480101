//go:build darwin && cgo

// SPDX-License-Identifier: MIT
package meminfo

/*
#include <mach/mach.h>
#include <mach/mach_host.h>

static int read_vm_counters(uint64_t *page_size, uint64_t *active, uint64_t *wired, uint64_t *compressed) {
	mach_port_t host = mach_host_self();
	vm_size_t size = 0;
	kern_return_t kr = host_page_size(host, &size);
	if (kr == KERN_SUCCESS) {
		vm_statistics64_data_t stats;
		mach_msg_type_number_t count = HOST_VM_INFO64_COUNT;
		kr = host_statistics64(host, HOST_VM_INFO64, (host_info64_t)&stats, &count);
		if (kr == KERN_SUCCESS) {
			*page_size = size;
			*active = stats.active_count;
			*wired = stats.wire_count;
			*compressed = stats.compressor_page_count;
		}
	}
	mach_port_deallocate(mach_task_self(), host);
	return kr;
}
*/
import "C"

import "github.com/pkg/errors"

func readCounters() (*Counters, error) {
	var pageSize, active, wired, compressed C.uint64_t
	if kr := C.read_vm_counters(&pageSize, &active, &wired, &compressed); kr != 0 {
		return nil, errors.Wrapf(ErrKernelQuery, "host_statistics64: kern_return_t %d", int(kr))
	}
	return &Counters{
		Active:     uint64(active),
		Wired:      uint64(wired),
		Compressed: uint64(compressed),
		PageSize:   uint64(pageSize),
	}, nil
}
