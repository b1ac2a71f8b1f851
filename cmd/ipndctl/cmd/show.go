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
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dtnx/ipnd/internal/ipndlog"
	"github.com/dtnx/ipnd/ipnd"
)

func init() {
	RootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&decodeInFlag, "in", "i", "", "path to a hex-encoded beacon file (default: read hex from stdin)")
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Decode a beacon and render its service list as a table",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		data, err := readHexInput()
		if err != nil {
			log.Fatalf("reading input: %v", err)
		}

		// countingLogger records skip warnings so the table below can flag
		// how many services were dropped, while still going through
		// ipndlog.Logrus for the actual log line an operator would see.
		cl := &countingLogger{delegate: ipndlog.Logrus{}}
		b, err := ipnd.DeserializeDiscoveryBeacon(data, cl)
		if err != nil {
			log.Fatalf("decoding beacon: %v", err)
		}

		fmt.Printf("version=%s eid=%q sequence=%d", b.Version, b.EID, b.Sequence)
		if b.Period != nil {
			fmt.Printf(" period=%ds", *b.Period)
		}
		fmt.Println()

		printServiceTable(b.Services)
		if cl.skips > 0 {
			fmt.Println(color.YellowString("%d malformed service(s) were skipped during decode; see warnings above", cl.skips))
		}
	},
}

// countingLogger forwards to delegate and counts how many skip warnings
// fired, so `show` can surface a colored summary line.
type countingLogger struct {
	delegate ipnd.Logger
	skips    int
}

func (c *countingLogger) Warnf(format string, args ...interface{}) {
	c.skips++
	c.delegate.Warnf(format, args...)
}

func printServiceTable(services []*ipnd.DiscoveryService) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"tag", "protocol", "name", "parameter"})
	for _, s := range services {
		tag, err := s.Param.IPNDServiceTag(s.Protocol)
		tagStr := "?"
		if err == nil {
			tagStr = fmt.Sprintf("0x%02x", byte(tag))
		}
		table.Append([]string{tagStr, s.Protocol.String(), s.Name, summarizeParam(s.Param)})
	}
	table.Render()
}

// summarizeParam renders a ServiceParam as a short human-readable string
// for the show table; it does not round-trip and exists for display only.
func summarizeParam(p ipnd.ServiceParam) string {
	switch v := p.(type) {
	case *ipnd.IPServiceParam:
		return fmt.Sprintf("%s:%d", v.Address, v.Port)
	case *ipnd.LOWPANServiceParam:
		return fmt.Sprintf("pan=0x%04x port=%d", v.PANID, v.Port)
	case *ipnd.DatagramServiceParam:
		return v.Address
	case *ipnd.EMailServiceParam:
		return v.Address
	case *ipnd.DHTServiceParam:
		return fmt.Sprintf("port=%d proxy=%v", v.Port, v.Proxy)
	case *ipnd.DTNTPServiceParam:
		return fmt.Sprintf("version=%d quality=%.4f timestamp=%d", v.Version, v.Quality, v.Timestamp)
	default:
		return color.RedString("unrecognized parameter type")
	}
}
