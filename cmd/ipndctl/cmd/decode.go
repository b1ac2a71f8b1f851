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
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dtnx/ipnd/internal/ipndlog"
	"github.com/dtnx/ipnd/ipnd"
)

var decodeInFlag string

func init() {
	RootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeInFlag, "in", "i", "", "path to a hex-encoded beacon file (default: read hex from stdin)")
}

// readHexInput reads the configured input source (a file or stdin) and
// decodes it from hex, tolerating surrounding whitespace/newlines.
func readHexInput() ([]byte, error) {
	var r io.Reader = os.Stdin
	if decodeInFlag != "" {
		f, err := os.Open(decodeInFlag)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.TrimSpace(string(raw)))
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a hex-encoded discovery beacon and print it as JSON",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		data, err := readHexInput()
		if err != nil {
			log.Fatalf("reading input: %v", err)
		}

		b, err := ipnd.DeserializeDiscoveryBeacon(data, ipndlog.Logrus{})
		if err != nil {
			log.Fatalf("decoding beacon: %v", err)
		}

		out, err := json.MarshalIndent(beaconToJSON(b), "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	},
}

// serviceJSON and beaconJSON give the decoded value a stable, readable JSON
// shape; ipnd.ServiceParam is an interface and doesn't marshal usefully on
// its own.
type serviceJSON struct {
	Protocol string `json:"protocol"`
	Name     string `json:"name"`
	Param    any    `json:"param"`
}

type beaconJSON struct {
	Version  string        `json:"version"`
	Flags    uint8         `json:"flags"`
	EID      string        `json:"eid"`
	Sequence uint16        `json:"sequence"`
	Period   *uint16       `json:"period,omitempty"`
	Services []serviceJSON `json:"services"`
}

func beaconToJSON(b *ipnd.DiscoveryBeacon) beaconJSON {
	out := beaconJSON{
		Version:  b.Version.String(),
		Flags:    b.Flags,
		EID:      b.EID,
		Sequence: b.Sequence,
		Period:   b.Period,
	}
	for _, s := range b.Services {
		out.Services = append(out.Services, serviceJSON{
			Protocol: s.Protocol.String(),
			Name:     s.Name,
			Param:    s.Param,
		})
	}
	return out
}
