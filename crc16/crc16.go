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

// Package crc16 implements the CRC-16 variant used by XMODEM. The polynomial
// is 0x1021, the initial value is zero and neither the input nor the output
// are reflected. This is sometimes called CRC-16/XMODEM or CRC-16/ACORN.
//
// The same checksum is used by the cartridge detector to compare banks.
package crc16

// Size of the checksum in bytes.
const Size = 2

const poly = 0x1021

// lookup table indexed by the top byte of the running checksum xored with the
// next input byte
var table [256]uint16

func init() {
	for i := range table {
		c := uint16(i) << 8
		for range 8 {
			if c&0x8000 != 0 {
				c = c<<1 ^ poly
			} else {
				c <<= 1
			}
		}
		table[i] = c
	}
}

// Update returns the result of adding the bytes in data to the checksum.
func Update(crc uint16, data []uint8) uint16 {
	for _, v := range data {
		crc = crc<<8 ^ table[uint8(crc>>8)^v]
	}
	return crc
}

// Checksum returns the CRC-16/XMODEM checksum of data.
func Checksum(data []uint8) uint16 {
	return Update(0, data)
}
