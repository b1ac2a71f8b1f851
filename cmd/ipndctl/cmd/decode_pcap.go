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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dtnx/ipnd/internal/ipndlog"
	"github.com/dtnx/ipnd/ipnd"
)

var decodePcapPortFlag uint16

func init() {
	RootCmd.AddCommand(decodePcapCmd)
	decodePcapCmd.Flags().Uint16VarP(&decodePcapPortFlag, "port", "p", 4551, "UDP port discovery beacons are captured on")
}

// packetHandle abstracts the packet sources pcapgo.Reader and
// pcapgo.NgReader both implement, the way pshark/main.go does.
type packetHandle interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

var decodePcapCmd = &cobra.Command{
	Use:   "decode-pcap <file.pcap>",
	Short: "Decode discovery beacons out of a pcap capture's UDP payloads",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()

		if err := decodePcapRun(args[0], decodePcapPortFlag); err != nil {
			log.Fatal(err)
		}
	},
}

func decodePcapRun(path string, port uint16) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var handle packetHandle
	handle, err = pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
	if err != nil {
		if _, serr := f.Seek(0, 0); serr != nil {
			return fmt.Errorf("seeking in %s: %w", path, serr)
		}
		handle, err = pcapgo.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
	}

	log := ipndlog.Logrus{}
	source := gopacket.NewPacketSource(handle, handle.LinkType())
	count := 0
	for packet := range source.Packets() {
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || (uint16(udp.SrcPort) != port && uint16(udp.DstPort) != port) {
			continue
		}
		payload := udp.Payload
		if len(payload) == 0 {
			continue
		}

		b, err := ipnd.DeserializeDiscoveryBeacon(payload, log)
		if err != nil {
			fmt.Printf("packet %d: not a discovery beacon: %v\n", count, err)
			count++
			continue
		}
		fmt.Printf("packet %d: version=%s eid=%q sequence=%d services=%d\n",
			count, b.Version, b.EID, b.Sequence, len(b.Services))
		printServiceTable(b.Services)
		count++
	}
	return nil
}
