//go:build freebsd

// SPDX-License-Identifier: MIT
package meminfo

import (
	"reflect"

	// The standard library's syscall package cannot read 64-bit integers
	// from sysctl.
	"github.com/blabber/go-freebsd-sysctl/sysctl"
	"github.com/pkg/errors"
)

// sysctlVars lists the sysctl variables the sampler needs. FreeBSD has no
// memory compressor, so compressed pages are always zero.
type sysctlVars struct {
	PageSize    uint64 `sysctl:"hw.pagesize"`
	ActiveCount uint64 `sysctl:"vm.stats.vm.v_active_count"`
	WireCount   uint64 `sysctl:"vm.stats.vm.v_wire_count"`
}

func readCounters() (*Counters, error) {
	var vars sysctlVars
	if err := getVarsFromSysctl(reflect.ValueOf(&vars)); err != nil {
		return nil, err
	}
	return &Counters{
		Active:   vars.ActiveCount,
		Wired:    vars.WireCount,
		PageSize: vars.PageSize,
	}, nil
}

// getVarsFromSysctl fills every field of the struct rv points to from the
// sysctl variable named in its `sysctl:` tag.
func getVarsFromSysctl(rv reflect.Value) error {
	rvi := reflect.Indirect(rv)
	for i := 0; i < rvi.NumField(); i++ {
		name, found := rvi.Type().Field(i).Tag.Lookup("sysctl")
		if !found {
			panic("struct field " + rvi.Type().Field(i).Name + " is missing `sysctl:` tag")
		}
		value, err := sysctl.GetInt64(name)
		if err != nil {
			return errors.Wrapf(ErrKernelQuery, "sysctl(%q): %v", name, err)
		}
		if err := setVar(rvi.Field(i), name, uint64(value), true); err != nil {
			return err
		}
	}
	return nil
}
