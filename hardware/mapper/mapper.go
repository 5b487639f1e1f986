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

package mapper

import (
	"fmt"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/hardware/cartio"
	"github.com/smsprogr/smsprogr/logger"
)

// Sentinal error patterns.
const (
	InvalidSlot = "mapper: invalid slot (%d)"
	UnknownKind = "mapper: unknown mapper kind (%s)"
)

// Kind identifies the type of mapper hardware.
type Kind int

// List of valid Kind values.
const (
	None Kind = iota
	Sega
)

func (k Kind) String() string {
	switch k {
	case None:
		return "NONE"
	case Sega:
		return "SEGA"
	}
	return "unknown"
}

// ParseKind converts a string to a Kind value. Case sensitive.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "NONE":
		return None, nil
	case "SEGA":
		return Sega, nil
	}
	return None, curated.Errorf(UnknownKind, s)
}

// Register addresses.
const (
	Control  = uint16(0xfffc)
	Slot0Reg = uint16(0xfffd)
	Slot1Reg = uint16(0xfffe)
	Slot2Reg = uint16(0xffff)
)

// NumSlots is the number of slots that can be switched.
const NumSlots = 3

// BankSize is the size of a single bank and of the window it is seen through.
const BankSize = 0x4000

// the value written to the control register during initialisation
const controlInit = 0x80

// Mapper is the bank switching hardware of the cartridge.
type Mapper struct {
	bus  cartio.Bus
	kind Kind

	// the last bank written to each slot register. there is no way of reading
	// the registers back
	slots [NumSlots]uint8
}

// NewMapper is the preferred method of initialisation for the Mapper type.
// The mapper must be initialised with Init() before use.
func NewMapper(bus cartio.Bus) *Mapper {
	return &Mapper{
		bus:   bus,
		slots: [NumSlots]uint8{0, 1, 2},
	}
}

func (mp *Mapper) String() string {
	return fmt.Sprintf("%s [%d %d %d]", mp.kind, mp.slots[0], mp.slots[1], mp.slots[2])
}

// Kind returns the type of mapper selected by the most recent call to Init().
func (mp *Mapper) Kind() Kind {
	return mp.kind
}

// Init selects the mapper type and puts the hardware into the power-on
// layout. For the Sega mapper the control register is initialised and slots
// 0, 1 and 2 are set to banks 0, 1 and 2. Init() makes no writes to the bus
// for the None mapper but SetSlot() still does.
//
// Calling Init() multiple times is safe.
func (mp *Mapper) Init(kind Kind) {
	mp.kind = kind
	mp.slots = [NumSlots]uint8{0, 1, 2}

	if kind != Sega {
		logger.Logf(logger.Allow, "mapper", "%s", mp)
		return
	}

	mp.bus.WriteClk(Control, controlInit)
	for s := range NumSlots {
		mp.bus.WriteClk(Slot0Reg+uint16(s), mp.slots[s])
	}

	logger.Logf(logger.Allow, "mapper", "%s", mp)
}

// SetSlot points a slot at a bank. The write to the slot register is always
// made, even if the slot is already pointing at the bank and whatever the
// mapper kind. A cartridge without a mapper ignores the write.
func (mp *Mapper) SetSlot(slot int, bank uint8) error {
	if slot < 0 || slot >= NumSlots {
		return curated.Errorf(InvalidSlot, slot)
	}
	mp.slots[slot] = bank
	mp.bus.WriteClk(Slot0Reg+uint16(slot), bank)
	return nil
}

// Slot returns the bank the slot is currently pointing at.
func (mp *Mapper) Slot(slot int) (uint8, error) {
	if slot < 0 || slot >= NumSlots {
		return 0, curated.Errorf(InvalidSlot, slot)
	}
	return mp.slots[slot], nil
}

// Translation describes how a linear cartridge address is reached through
// the 16-bit window.
type Translation struct {
	// the bank that must be selected in slot 2. only meaningful when Banked
	// is true
	Bank uint8

	// the address in the 16-bit window
	Window uint16

	// Banked is true if the address can only be reached through slot 2
	Banked bool
}

// Translate maps a linear cartridge address to a window address. Addresses
// below 32KiB are reached directly through slots 0 and 1. Addresses above
// that are reached through slot 2, with the bank being the address divided
// by the bank size.
//
// Translate does not touch the hardware.
func Translate(address uint32) Translation {
	if address < 2*BankSize {
		return Translation{
			Bank:   uint8(address / BankSize),
			Window: uint16(address),
		}
	}
	return Translation{
		Bank:   uint8(address / BankSize),
		Window: 0x8000 | uint16(address&(BankSize-1)),
		Banked: true,
	}
}

// Select makes the linear address reachable through the window and returns
// the window address. Slot 2 is written only if the address requires it.
func (mp *Mapper) Select(address uint32) uint16 {
	t := Translate(address)
	if t.Banked {
		_ = mp.SetSlot(2, t.Bank)
	}
	return t.Window
}

// Restore puts slot 2 back to bank 2, the power-on layout.
func (mp *Mapper) Restore() {
	_ = mp.SetSlot(2, 2)
}
