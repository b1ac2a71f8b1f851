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

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dtnx/ipnd/ipnd"
)

var (
	encodeEIDFlag       string
	encodeSequenceFlag  uint16
	encodePeriodFlag    uint16
	encodeVersionFlag   string
	encodeServiceFlags  []string
	encodeTemplateFlags []string
	encodeOutFlag       string
)

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVar(&encodeEIDFlag, "eid", "", "advertising node's EID (falls back to the config file's default_eid)")
	encodeCmd.Flags().Uint16Var(&encodeSequenceFlag, "sequence", 0, "beacon sequence number")
	encodeCmd.Flags().Uint16Var(&encodePeriodFlag, "period", 0, "advertisement period in seconds, 0 falls back to the config file's default_period; omitted when both are 0 (draft-02 only)")
	encodeCmd.Flags().StringVar(&encodeVersionFlag, "version", "draft-02", "beacon version: legacy, draft-00, draft-01, draft-02")
	encodeCmd.Flags().StringArrayVar(&encodeServiceFlags, "service", nil, "service entry, kind=param (repeatable); see `ipndctl encode --help`")
	encodeCmd.Flags().StringArrayVar(&encodeTemplateFlags, "template", nil, "named service_templates entry from the config file (repeatable)")
	encodeCmd.Flags().StringVarP(&encodeOutFlag, "out", "o", "", "write the encoded beacon to this file instead of printing hex to stdout")
}

// resolveTemplate looks up name in cfg's service_templates and parses it the
// same way a --service flag is parsed, so a config template and a flag
// produce identical DiscoveryService values.
func resolveTemplate(cfg *Config, name string) (*ipnd.DiscoveryService, error) {
	tmpl, ok := cfg.ServiceTemplate[name]
	if !ok {
		return nil, fmt.Errorf("no service_templates entry named %q in config", name)
	}
	return parseServiceFlag(tmpl.Protocol + "=" + tmpl.Param)
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build and serialize a discovery beacon",
	Long: "Build and serialize a discovery beacon from --eid/--sequence/--period/--service " +
		"flags.\n\n--service kinds: tcp=ADDR:PORT, udp=ADDR:PORT, lowpan=PANID:PORT, " +
		"dgram-udp=ADDR, dgram-eth=ADDR, dgram-lowpan=ADDR, email=ADDR, dht=PORT:PROXY, " +
		"dtntp=VERSION:QUALITY:TIMESTAMP\n\n" +
		"--template NAME pulls a pre-filled service from the config file's " +
		"service_templates map instead of spelling it out inline.",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}

		eid := encodeEIDFlag
		if eid == "" {
			eid = cfg.DefaultEID
		}
		period := encodePeriodFlag
		if period == 0 {
			period = cfg.DefaultPeriod
		}

		version, err := parseVersionFlag(encodeVersionFlag)
		if err != nil {
			log.Fatal(err)
		}

		b := &ipnd.DiscoveryBeacon{
			Version:  version,
			EID:      eid,
			Sequence: encodeSequenceFlag,
		}
		if version.Binary() && period != 0 {
			p := period
			b.Period = &p
		}
		for _, name := range encodeTemplateFlags {
			svc, err := resolveTemplate(cfg, name)
			if err != nil {
				log.Fatalf("--template %q: %v", name, err)
			}
			b.Services = append(b.Services, svc)
		}
		for _, s := range encodeServiceFlags {
			svc, err := parseServiceFlag(s)
			if err != nil {
				log.Fatalf("--service %q: %v", s, err)
			}
			b.Services = append(b.Services, svc)
		}

		data, err := b.Serialize()
		if err != nil {
			log.Fatalf("serializing beacon: %v", err)
		}

		if encodeOutFlag != "" {
			if err := os.WriteFile(encodeOutFlag, data, 0o644); err != nil {
				log.Fatalf("writing %s: %v", encodeOutFlag, err)
			}
			log.Infof("wrote %d bytes to %s", len(data), encodeOutFlag)
			return
		}
		fmt.Println(hex.EncodeToString(data))
	},
}
