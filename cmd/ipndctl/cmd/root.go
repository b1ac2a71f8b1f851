/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cmd implements the ipndctl CLI: encode/decode/decode-pcap/show
// over the ipnd discovery beacon codec.
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCmd is the main entry point. Exported so ipndctl can be extended
// without touching core functionality, the way cmd/ptpcheck/cmd.RootCmd is.
var RootCmd = &cobra.Command{
	Use:   "ipndctl",
	Short: "Encode and decode IP Neighbor Discovery beacons",
}

var (
	rootVerboseFlag bool
	rootConfigFlag  string
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().StringVarP(&rootConfigFlag, "config", "c", "", "path to ipndctl.yaml config")
}

// ConfigureVerbosity configures log verbosity based on parsed flags. Needs
// to be called by any subcommand.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// loadConfig reads the --config file if one was given, returning a zero
// Config otherwise so callers can use its defaults unconditionally.
func loadConfig() (*Config, error) {
	if rootConfigFlag == "" {
		return &Config{}, nil
	}
	return ReadConfig(rootConfigFlag)
}

// Execute is the main entry point for the CLI interface.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
