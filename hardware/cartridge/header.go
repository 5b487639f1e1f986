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

package cartridge

import (
	"fmt"
	"strings"
)

// HeaderAddress is the location of the header in the 16-bit window.
const HeaderAddress = 0x7ff0

// HeaderSize is the number of bytes in the header.
const HeaderSize = 16

const signature = "TMR SEGA"

// Region is the region/system code found in the header.
type Region uint8

func (r Region) String() string {
	switch r {
	case 3:
		return "SMS Japan"
	case 4:
		return "SMS Export"
	case 5:
		return "GG Japan"
	case 6:
		return "GG Export"
	case 7:
		return "GG International"
	}
	return fmt.Sprintf("unknown (%d)", uint8(r))
}

// sizes indexed by the size code in the header
var headerSizes = map[uint8]int{
	0xa: 8 * 1024,
	0xb: 16 * 1024,
	0xc: 32 * 1024,
	0xd: 48 * 1024,
	0xe: 64 * 1024,
	0xf: 128 * 1024,
	0x0: 256 * 1024,
	0x1: 512 * 1024,
	0x2: 1024 * 1024,
}

// Header is the decoded cartridge header.
type Header struct {
	Raw [HeaderSize]uint8

	// Valid is true if the header contains the signature. The remaining
	// fields are decoded regardless
	Valid bool

	Checksum    uint16
	ProductCode int
	Version     uint8
	Region      Region

	// Size is the ROM size claimed by the header. zero if the code is not
	// recognised
	Size int
}

// bcd converts a binary coded decimal byte to an integer
func bcd(v uint8) int {
	return int(v>>4)*10 + int(v&0x0f)
}

// DecodeHeader interprets the sixteen header bytes.
func DecodeHeader(raw [HeaderSize]uint8) Header {
	h := Header{
		Raw:   raw,
		Valid: string(raw[:len(signature)]) == signature,
	}

	h.Checksum = uint16(raw[0xb])<<8 | uint16(raw[0xa])
	h.ProductCode = bcd(raw[0xc]) + bcd(raw[0xd])*100 + int(raw[0xe]>>4)*10000
	h.Version = raw[0xe] & 0x0f
	h.Region = Region(raw[0xf] >> 4)
	h.Size = headerSizes[raw[0xf]&0x0f]

	return h
}

func (h Header) String() string {
	if !h.Valid {
		return "no header"
	}
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("product %05d v%d, %s", h.ProductCode, h.Version, h.Region))
	if h.Size > 0 {
		s.WriteString(fmt.Sprintf(", %dKiB", h.Size/1024))
	}
	s.WriteString(fmt.Sprintf(", checksum %04x", h.Checksum))
	return s.String()
}
