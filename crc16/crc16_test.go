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

package crc16_test

import (
	"testing"

	"github.com/smsprogr/smsprogr/crc16"
	"github.com/smsprogr/smsprogr/test"
)

// bitwise reference implementation
func reference(data []uint8) uint16 {
	var crc uint16
	for _, v := range data {
		crc ^= uint16(v) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func TestCheckValue(t *testing.T) {
	// the standard check value for CRC-16/XMODEM
	test.ExpectEquality(t, crc16.Checksum([]uint8("123456789")), uint16(0x31c3))
	test.ExpectEquality(t, crc16.Checksum(nil), uint16(0))
	test.ExpectEquality(t, crc16.Checksum(make([]uint8, 128)), uint16(0))
}

func TestReference(t *testing.T) {
	block := make([]uint8, 128)
	for i := range block {
		block[i] = uint8(i)
	}
	test.ExpectEquality(t, crc16.Checksum(block), reference(block))

	// updating in parts is the same as a single pass
	crc := crc16.Update(0, block[:50])
	crc = crc16.Update(crc, block[50:])
	test.ExpectEquality(t, crc, reference(block))
}
