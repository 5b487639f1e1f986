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

	"github.com/smsprogr/smsprogr/crc16"
	"github.com/smsprogr/smsprogr/hardware/cartio"
	"github.com/smsprogr/smsprogr/hardware/flash"
	"github.com/smsprogr/smsprogr/hardware/mapper"
	"github.com/smsprogr/smsprogr/logger"
)

// DefaultROMSize is the assumed ROM size before a cartridge has been
// detected.
const DefaultROMSize = 32 * 1024

// the scan gives up after this bank index and reports this many banks
const scanLimit = 64

// Profile is the result of cartridge detection.
type Profile struct {
	// size of ROM in bytes. a detected size is always a power-of-two multiple
	// of 16KiB
	ROMSize int

	// whether a flash chip was detected and the silicon ID it returned
	Flash   bool
	FlashID uint16

	// information about the flash ID. only valid if Flash is true
	FlashInfo flash.Info

	Header Header
}

// NewProfile returns the profile used before the cartridge has been
// detected.
func NewProfile() Profile {
	return Profile{
		ROMSize: DefaultROMSize,
	}
}

func (pr Profile) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("ROM size: %dKiB", pr.ROMSize/1024))
	if pr.Flash {
		s.WriteString(fmt.Sprintf("\nFlash ID: %04x %s", pr.FlashID, pr.FlashInfo))
		if pr.FlashInfo.Size > 0 {
			s.WriteString(fmt.Sprintf("\nFlash size: %dKiB", pr.FlashInfo.Size/1024))
		}
	} else {
		s.WriteString("\nFlash: not detected")
	}
	s.WriteString(fmt.Sprintf("\nHeader: %s", pr.Header))
	return s.String()
}

// Detector discovers the size and type of the inserted cartridge.
type Detector struct {
	bus    cartio.Bus
	mapper *mapper.Mapper
	flash  *flash.Device

	buf [mapper.BankSize]uint8
}

// NewDetector is the preferred method of initialisation for the Detector
// type.
func NewDetector(bus cartio.Bus, mp *mapper.Mapper, dev *flash.Device) *Detector {
	return &Detector{
		bus:    bus,
		mapper: mp,
		flash:  dev,
	}
}

// read the 16KiB window starting at the address into the internal buffer
func (det *Detector) window(address uint16) []uint8 {
	for i := range det.buf {
		det.buf[i] = det.bus.Read(address + uint16(i))
	}
	return det.buf[:]
}

func blank(data []uint8) bool {
	for _, v := range data {
		if v != 0xff {
			return false
		}
	}
	return true
}

// ScanROMSize returns the size of the ROM in bytes. Slot 2 is left pointing at
// bank 2.
func (det *Detector) ScanROMSize() int {
	defer det.mapper.Restore()

	first := det.bus.Read(0x0000)
	crc := crc16.Checksum(det.window(0x0000))

	bank := 1
	for ; bank < scanLimit; bank <<= 1 {
		var address uint16
		if bank == 1 {
			address = 0x4000
		} else {
			_ = det.mapper.SetSlot(2, uint8(bank))
			address = 0x8000
		}

		if det.bus.Read(address) == first {
			if crc16.Checksum(det.window(address)) == crc {
				logger.Logf(logger.Allow, "detect", "bank %d mirrors bank 0", bank)
				break
			}
		}

		if bank == 2 && blank(det.window(address)) {
			logger.Log(logger.Allow, "detect", "bank 2 is blank: assuming 32KiB without mapper")
			break
		}
	}

	return bank * mapper.BankSize
}

// DetectFlash probes for a flash chip. If one is found the silicon ID and
// information about the chip is returned.
func (det *Detector) DetectFlash() (bool, uint16, flash.Info) {
	if !det.flash.Detect() {
		return false, 0, flash.Info{}
	}
	id := det.flash.ReadSiliconID()
	nf := flash.Lookup(id)
	logger.Logf(logger.Allow, "detect", "flash ID %04x: %s", id, nf)
	return true, id, nf
}

// ReadHeader reads and decodes the cartridge header.
func (det *Detector) ReadHeader() Header {
	var raw [HeaderSize]uint8
	for i := range raw {
		raw[i] = det.bus.Read(HeaderAddress + uint16(i))
	}
	return DecodeHeader(raw)
}

// Detect initialises the mapper and performs all detection steps. The mapper
// is returned to its initial state afterwards.
func (det *Detector) Detect() Profile {
	kind := det.mapper.Kind()
	det.mapper.Init(kind)
	defer det.mapper.Init(kind)

	pr := Profile{
		Header:  det.ReadHeader(),
		ROMSize: det.ScanROMSize(),
	}
	pr.Flash, pr.FlashID, pr.FlashInfo = det.DetectFlash()

	logger.Logf(logger.Allow, "detect", "ROM size %dKiB", pr.ROMSize/1024)
	return pr
}

// BlankCheck returns the linear address of the first byte in the first size
// bytes of the cartridge that is not 0xff. Returns -1 if all bytes are 0xff.
func (det *Detector) BlankCheck(size int) int {
	defer det.mapper.Restore()

	for a := 0; a < size; a++ {
		t := mapper.Translate(uint32(a))
		if t.Banked && a&(mapper.BankSize-1) == 0 {
			_ = det.mapper.SetSlot(2, t.Bank)
		}
		if det.bus.Read(t.Window) != 0xff {
			return a
		}
	}
	return -1
}
