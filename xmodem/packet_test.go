// This file is part of smsprogr.
//
// smsprogr is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// smsprogr is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with smsprogr.  If not, see <https://www.gnu.org/licenses/>.

package xmodem

import (
	"testing"

	"github.com/smsprogr/smsprogr/crc16"
	"github.com/smsprogr/smsprogr/test"
)

func TestChecksumOfZeroBlock(t *testing.T) {
	pkt := make([]uint8, Checksum.PacketSize())
	encode(pkt, Checksum, 1, make([]uint8, BlockSize))
	test.ExpectEquality(t, len(pkt), 132)
	test.ExpectEquality(t, pkt[131], uint8(0x00))
	test.ExpectEquality(t, verify(pkt, Checksum), true)
}

func TestCRCTrailer(t *testing.T) {
	block := make([]uint8, BlockSize)
	for i := range block {
		block[i] = uint8(i)
	}

	pkt := make([]uint8, CRC.PacketSize())
	encode(pkt, CRC, 0xff, block)
	test.ExpectEquality(t, len(pkt), 133)
	test.ExpectEquality(t, pkt[0], uint8(SOH))
	test.ExpectEquality(t, pkt[1], uint8(0xff))
	test.ExpectEquality(t, pkt[2], uint8(0x00))

	// big endian
	c := crc16.Checksum(block)
	test.ExpectEquality(t, pkt[131], uint8(c>>8))
	test.ExpectEquality(t, pkt[132], uint8(c))
	test.ExpectEquality(t, verify(pkt, CRC), true)

	// the checksum of 0..127 is 127*128/2 mod 256
	test.ExpectEquality(t, Sum(block), uint8(0x40))
}

func TestVerifyFailures(t *testing.T) {
	block := make([]uint8, BlockSize)
	pkt := make([]uint8, Checksum.PacketSize())

	encode(pkt, Checksum, 5, block)
	pkt[2] = 0
	test.ExpectEquality(t, verify(pkt, Checksum), false)

	encode(pkt, Checksum, 5, block)
	pkt[10] = 1
	test.ExpectEquality(t, verify(pkt, Checksum), false)

	encode(pkt, Checksum, 5, block)
	pkt[0] = EOT
	test.ExpectEquality(t, verify(pkt, Checksum), false)
}

func TestSequence(t *testing.T) {
	test.ExpectEquality(t, NextSeq(1), uint8(2))
	test.ExpectEquality(t, NextSeq(254), uint8(255))
	test.ExpectEquality(t, NextSeq(255), uint8(1))
	test.ExpectEquality(t, Blocks(0), 0)
	test.ExpectEquality(t, Blocks(1), 1)
	test.ExpectEquality(t, Blocks(128), 1)
	test.ExpectEquality(t, Blocks(129), 2)
}
