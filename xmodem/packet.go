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
	"github.com/smsprogr/smsprogr/crc16"
)

// Control bytes.
const (
	SOH = 0x01
	ETX = 0x03
	EOT = 0x04
	ACK = 0x06
	NAK = 0x15
	CAN = 0x18

	// sent by a receiver to request CRC mode
	CRCRequest = 'C'
)

// BlockSize is the number of data bytes in a packet.
const BlockSize = 128

// the number of bytes before the data in a packet
const headerSize = 3

// Sentinal error patterns.
const (
	Timeout  = "xmodem: timeout"
	Aborted  = "xmodem: cancelled"
	Protocol = "xmodem: %s"
)

// Mode is the integrity check used by a transfer.
type Mode int

// List of valid Mode values.
const (
	Checksum Mode = iota
	CRC
)

func (m Mode) String() string {
	switch m {
	case Checksum:
		return "checksum"
	case CRC:
		return "CRC"
	}
	return "unknown"
}

// PacketSize is the total number of bytes in a packet.
func (m Mode) PacketSize() int {
	if m == CRC {
		return headerSize + BlockSize + crc16.Size
	}
	return headerSize + BlockSize + 1
}

// Sum is the 8-bit arithmetic checksum of data.
func Sum(data []uint8) uint8 {
	var s uint8
	for _, v := range data {
		s += v
	}
	return s
}

// NextSeq returns the sequence number that follows seq. Zero is skipped.
func NextSeq(seq uint8) uint8 {
	seq++
	if seq == 0 {
		seq = 1
	}
	return seq
}

// Blocks returns the number of packets required to send size bytes.
func Blocks(size int) int {
	return (size + BlockSize - 1) / BlockSize
}

// encode fills pkt with a complete packet. pkt must be the correct size for
// the mode.
func encode(pkt []uint8, mode Mode, seq uint8, data []uint8) {
	pkt[0] = SOH
	pkt[1] = seq
	pkt[2] = ^seq
	copy(pkt[headerSize:headerSize+BlockSize], data)
	block := pkt[headerSize : headerSize+BlockSize]
	if mode == CRC {
		c := crc16.Checksum(block)
		pkt[headerSize+BlockSize] = uint8(c >> 8)
		pkt[headerSize+BlockSize+1] = uint8(c)
	} else {
		pkt[headerSize+BlockSize] = Sum(block)
	}
}

// verify checks the sequence complement and the trailer of a complete packet
func verify(pkt []uint8, mode Mode) bool {
	if pkt[0] != SOH || pkt[2] != ^pkt[1] {
		return false
	}
	block := pkt[headerSize : headerSize+BlockSize]
	if mode == CRC {
		c := crc16.Checksum(block)
		return pkt[headerSize+BlockSize] == uint8(c>>8) && pkt[headerSize+BlockSize+1] == uint8(c)
	}
	return pkt[headerSize+BlockSize] == Sum(block)
}
