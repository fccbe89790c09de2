// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

// Command scledemo drives a Script Configuration Loading Engine against a
// real directory of script files, as a walkthrough of the reload decision
// and suggest-or-save algorithm outside of a test harness.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kodescript/scle/cmd/scledemo/internal/demo"
)

// NewScledemoCommand builds the root cobra command.
func NewScledemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scledemo",
		Short: "scledemo - Script Configuration Loading Engine walkthrough",
	}

	cmd.AddCommand(demo.NewRunCommand())

	return cmd
}

func main() {
	if err := NewScledemoCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
