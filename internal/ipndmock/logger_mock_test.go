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

package ipndmock

import (
	"testing"

	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/dtnx/ipnd/ipnd"
)

func TestMockLoggerObservesSkipWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := NewMockLogger(ctrl)
	log.EXPECT().Warnf(gomock.Any(), gomock.Any()).Times(1)

	svc, err := ipnd.NewDiscoveryService(ipnd.ProtocolEmail, &ipnd.EMailServiceParam{Address: "a@b.org"}).Serialize(ipnd.ProtocolVersionDraft02)
	require.NoError(t, err)

	garbage := append([]byte{0x7F, 0x03}, []byte("abc")...)

	buf := []byte{byte(ipnd.ProtocolVersionDraft02), 0x00}
	buf = append(buf, 0x00) // empty EID length (SDNV 0)
	buf = append(buf, 0x00, 0x01) // sequence
	buf = append(buf, 0x02)       // 2 declared services (SDNV)
	buf = append(buf, garbage...)
	buf = append(buf, svc...)

	got, err := ipnd.DeserializeDiscoveryBeacon(buf, log)
	require.NoError(t, err)
	require.Len(t, got.Services, 1)
}
