// SPDX-License-Identifier: MIT
package meminfo

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/pkg/errors"
)

// optionalUint64 marks a counter that some kernels do not export.
type optionalUint64 struct {
	Present bool
	Value   uint64
}

// setVar stores value into a uint64 or optionalUint64 field. A missing
// mandatory variable is an error; a missing optional one is recorded as
// not present.
func setVar(field reflect.Value, name string, value uint64, found bool) error {
	switch field.Kind() {
	case reflect.Struct:
		field.Set(reflect.ValueOf(optionalUint64{Present: found, Value: value}))
	case reflect.Uint64:
		if !found {
			return errors.Wrapf(ErrKernelQuery, "variable %q not reported", name)
		}
		field.SetUint(value)
	default:
		panic(fmt.Sprintf("field for %s has invalid type", name))
	}
	return nil
}

// readFileVarsIntoStruct scans filename line by line and fills every field
// of the struct rv points to whose tag (under tagKey) matches a parsed key.
func readFileVarsIntoStruct(filename, tagKey string, parseLine func(line string) (string, uint64, error), rv reflect.Value) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(ErrKernelQuery, err.Error())
	}
	defer f.Close()

	rvi := reflect.Indirect(rv)
	byName := make(map[string]int, rvi.NumField())
	for i := 0; i < rvi.NumField(); i++ {
		name, ok := rvi.Type().Field(i).Tag.Lookup(tagKey)
		if !ok {
			panic(fmt.Sprintf("struct field %s is missing `%s:` tag", rvi.Type().Field(i).Name, tagKey))
		}
		byName[name] = i
	}

	values := make(map[string]uint64, len(byName))
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(values) < len(byName) {
		key, value, err := parseLine(scanner.Text())
		if err != nil {
			continue
		}
		if _, wanted := byName[key]; wanted {
			values[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(ErrKernelQuery, "reading %s: %v", filename, err)
	}

	for name, i := range byName {
		value, found := values[name]
		if err := setVar(rvi.Field(i), name, value, found); err != nil {
			return err
		}
	}
	return nil
}
