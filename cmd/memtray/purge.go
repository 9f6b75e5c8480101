// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	meminfo "github.com/renehsz/memtray"
	"github.com/renehsz/memtray/internal/purge"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newPurgeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Run the purge utility once and print the memory in use afterwards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd, root); err != nil {
				return err
			}
			if os.Geteuid() != 0 {
				return errors.New("purge must be run as root")
			}
			r := purge.NewDefaultRunner()
			if err := r.Purge(cmd.Context()); err != nil {
				return err
			}
			logrus.WithField("utility", r.Path()).Info("purge completed")
			snap, err := meminfo.Get()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), snap.Label)
			return err
		},
	}
}
