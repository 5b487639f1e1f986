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

package cartsim

import (
	"fmt"
)

// Chip is the type of memory fitted to the simulated cartridge.
type Chip int

// List of valid Chip values.
const (
	ROM Chip = iota
	MX29F040
	MX29LV320
	Compatible
)

func (c Chip) String() string {
	switch c {
	case ROM:
		return "ROM"
	case MX29F040:
		return "MX29F040"
	case MX29LV320:
		return "MX29LV320"
	case Compatible:
		return "29LV320 compatible"
	}
	return "unknown"
}

// ParseChip converts the command line spelling of a chip to a Chip value.
func ParseChip(s string) (Chip, error) {
	switch s {
	case "none", "rom":
		return ROM, nil
	case "29f040":
		return MX29F040, nil
	case "29lv320":
		return MX29LV320, nil
	case "compatible":
		return Compatible, nil
	}
	return ROM, fmt.Errorf("cartsim: unknown chip type (%s)", s)
}

// DefaultBusyReads is the number of status reads an erase or program
// operation takes to complete.
const DefaultBusyReads = 3

type flashState int

const (
	stRead flashState = iota
	stUnlock1
	stUnlock2
	stAutoselect
	stProgram
	stEraseSetup
	stEraseUnlock1
	stEraseUnlock2
)

// Write is a record of a clocked write to a mapper register.
type Write struct {
	Address uint16
	Data    uint8
}

// Cartridge is a simulated cartridge.
type Cartridge struct {
	chip       Chip
	mapperless bool
	mem        []uint8

	// the address lines
	address uint16

	// mapper registers
	control uint8
	slots   [3]uint8

	state flashState

	// status reads remaining for the current erase or program operation
	busy      int
	busyData  uint8
	busyErase bool

	// BusyReads is the number of status reads an erase or program operation
	// takes to complete
	BusyReads int

	// Stuck simulates a chip that never completes an erase or program
	// operation
	Stuck bool

	// clocked writes to the mapper registers
	Registers []Write

	// number of bytes programmed and number of chip erases
	Programmed int
	Erased     int
}

// NewCartridge creates a simulated cartridge of the specified chip type. The
// size of mem must be a multiple of 16KiB. For flash chips the data should
// normally be a full sized image of the chip.
func NewCartridge(chip Chip, mem []uint8, mapperless bool) (*Cartridge, error) {
	if len(mem) == 0 || len(mem)%0x4000 != 0 {
		return nil, fmt.Errorf("cartsim: memory size must be a non-zero multiple of 16KiB (%d)", len(mem))
	}
	return &Cartridge{
		chip:       chip,
		mapperless: mapperless,
		mem:        mem,
		slots:      [3]uint8{0, 1, 2},
		BusyReads:  DefaultBusyReads,
	}, nil
}

// NewBlankFlash creates a simulated cartridge with an erased flash chip of the
// correct size for the chip type.
func NewBlankFlash(chip Chip) *Cartridge {
	size := 512 * 1024
	if chip == MX29LV320 || chip == Compatible {
		size = 4 * 1024 * 1024
	}
	mem := make([]uint8, size)
	for i := range mem {
		mem[i] = 0xff
	}
	c, _ := NewCartridge(chip, mem, false)
	return c
}

func (c *Cartridge) String() string {
	s := fmt.Sprintf("%s %dKiB", c.chip, len(c.mem)/1024)
	if c.mapperless {
		s = fmt.Sprintf("%s mapperless", s)
	}
	return s
}

// Memory returns the underlying memory of the cartridge.
func (c *Cartridge) Memory() []uint8 {
	return c.mem
}

// Slot returns the bank selected by a mapper slot register.
func (c *Cartridge) Slot(slot int) uint8 {
	return c.slots[slot]
}

// Control returns the value of the mapper control register.
func (c *Cartridge) Control() uint8 {
	return c.control
}

// physical returns the offset into memory for the current address. the
// second value is false if the address does not reach cartridge memory
func (c *Cartridge) physical() (int, bool) {
	if c.address >= 0xc000 {
		return 0, false
	}

	window := int(c.address >> 14)
	offset := int(c.address & 0x3fff)

	var bank int
	if c.mapperless {
		if window > 1 {
			return 0, false
		}
		bank = window
	} else {
		bank = int(c.slots[window])
	}

	numBanks := len(c.mem) / 0x4000
	return (bank%numBanks)*0x4000 + offset, true
}

// Latch implements the cartio.Port interface.
func (c *Cartridge) Latch(address uint16) {
	c.address = address
}

// Read implements the cartio.Port interface.
func (c *Cartridge) Read() uint8 {
	phys, ok := c.physical()
	if !ok {
		return 0xff
	}

	if c.busy > 0 {
		return c.status()
	}

	if c.state == stAutoselect {
		return c.autoselect(phys)
	}

	return c.mem[phys]
}

// status is the value read while an erase or program operation is in
// progress
func (c *Cartridge) status() uint8 {
	if !c.Stuck {
		c.busy--
	}
	if c.busyErase {
		return 0x00
	}
	return ^c.busyData & 0x80
}

func (c *Cartridge) autoselect(phys int) uint8 {
	var mfr, dev uint8
	var devAddr int

	switch c.chip {
	case MX29F040:
		mfr, dev, devAddr = 0xc2, 0xa4, 1
	case MX29LV320:
		mfr, dev, devAddr = 0xc2, 0xa7, 2
	case Compatible:
		mfr, dev, devAddr = 0x01, 0x50, 2
	default:
		return c.mem[phys]
	}

	switch phys & 0xff {
	case 0:
		return mfr
	case devAddr:
		return dev
	}
	return 0x00
}

// unlock addresses for the chip type
func (c *Cartridge) unlockAddresses() (int, int, int) {
	switch c.chip {
	case MX29LV320, Compatible:
		return 0xaaa, 0x555, 0xfff
	}
	return 0x555, 0x2aa, 0x7ff
}

// Write implements the cartio.Port interface.
func (c *Cartridge) Write(data uint8, clk bool) {
	if c.address >= 0xfffc {
		if clk && !c.mapperless {
			c.Registers = append(c.Registers, Write{Address: c.address, Data: data})
			if c.address == 0xfffc {
				c.control = data
			} else {
				c.slots[c.address-0xfffd] = data
			}
		}
		return
	}

	phys, ok := c.physical()
	if !ok || c.chip == ROM || c.busy > 0 {
		return
	}

	if data == 0xf0 && c.state != stProgram {
		c.state = stRead
		return
	}

	u1, u2, mask := c.unlockAddresses()
	at := phys & mask

	switch c.state {
	case stRead, stAutoselect:
		if at == u1 && data == 0xaa {
			c.state = stUnlock1
		}
	case stUnlock1:
		if at == u2 && data == 0x55 {
			c.state = stUnlock2
		} else {
			c.state = stRead
		}
	case stUnlock2:
		c.state = stRead
		if at == u1 {
			switch data {
			case 0x90:
				c.state = stAutoselect
			case 0xa0:
				c.state = stProgram
			case 0x80:
				c.state = stEraseSetup
			}
		}
	case stProgram:
		// programming can only clear bits
		c.mem[phys] &= data
		c.Programmed++
		c.busy = c.BusyReads
		c.busyData = data
		c.busyErase = false
		c.state = stRead
	case stEraseSetup:
		c.state = stRead
		if at == u1 && data == 0xaa {
			c.state = stEraseUnlock1
		}
	case stEraseUnlock1:
		c.state = stRead
		if at == u2 && data == 0x55 {
			c.state = stEraseUnlock2
		}
	case stEraseUnlock2:
		c.state = stRead
		if at == u1 && data == 0x10 {
			for i := range c.mem {
				c.mem[i] = 0xff
			}
			c.Erased++
			c.busy = c.BusyReads
			c.busyErase = true
		}
	}
}
