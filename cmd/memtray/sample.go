// SPDX-License-Identifier: MIT
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/docker/go-units"
	meminfo "github.com/renehsz/memtray"
	"github.com/spf13/cobra"
)

type sampleOptions struct {
	json    bool
	verbose bool
}

func newSampleCommand(root *rootOptions) *cobra.Command {
	var opts sampleOptions
	cmd := &cobra.Command{
		Use:   "sample [OPTIONS]",
		Short: "Print the memory in use once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd, root); err != nil {
				return err
			}
			snap, err := meminfo.Get()
			if err != nil {
				return err
			}
			return writeSample(cmd.OutOrStdout(), snap, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "Print the snapshot as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print the breakdown by page class")
	return cmd
}

type countersJSON struct {
	Active     uint64 `json:"active_pages"`
	Wired      uint64 `json:"wired_pages"`
	Compressed uint64 `json:"compressed_pages"`
	PageSize   uint64 `json:"page_size"`
}

type snapshotJSON struct {
	UsedBytes uint64       `json:"used_bytes"`
	Label     string       `json:"label"`
	Counters  countersJSON `json:"counters"`
}

func writeSample(w io.Writer, snap meminfo.Snapshot, opts sampleOptions) error {
	if opts.json {
		c := snap.Counters
		enc := json.NewEncoder(w)
		return enc.Encode(snapshotJSON{
			UsedBytes: snap.UsedBytes,
			Label:     snap.Label,
			Counters: countersJSON{
				Active:     c.Active,
				Wired:      c.Wired,
				Compressed: c.Compressed,
				PageSize:   c.PageSize,
			},
		})
	}

	if _, err := fmt.Fprintln(w, snap.Label); err != nil {
		return err
	}
	if !opts.verbose {
		return nil
	}
	c := snap.Counters
	for _, row := range []struct {
		name  string
		pages uint64
	}{
		{"active", c.Active},
		{"wired", c.Wired},
		{"compressed", c.Compressed},
	} {
		size := units.BytesSize(float64(row.pages * c.PageSize))
		if _, err := fmt.Fprintf(w, "  %-10s %12d pages  %s\n", row.name, row.pages, size); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  page size  %d bytes\n", c.PageSize)
	return err
}
