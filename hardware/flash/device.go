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

package flash

import (
	"github.com/smsprogr/smsprogr/hardware/cartio"
	"github.com/smsprogr/smsprogr/logger"
)

// Device is the flash chip of the cartridge. It delegates to the active Chip,
// which is chosen by Init().
type Device struct {
	bus       cartio.Bus
	chip      Chip
	pollLimit int
}

// NewDevice is the preferred method of initialisation for the Device type.
// The MX29F040 is active until Init() is called.
func NewDevice(bus cartio.Bus) *Device {
	dev := &Device{
		bus: bus,
	}
	dev.chip = dev.newMX29F040()
	return dev
}

func (dev *Device) newMX29F040() Chip {
	c := NewMX29F040(dev.bus)
	c.pollLimit = dev.pollLimit
	return c
}

func (dev *Device) newMX29LV320() Chip {
	c := NewMX29LV320(dev.bus)
	c.pollLimit = dev.pollLimit
	return c
}

func (dev *Device) String() string {
	return dev.chip.String()
}

// SetPollLimit sets the maximum number of status reads made while waiting for
// an erase or program operation to complete. A value of zero or less means
// that polling is unbounded.
func (dev *Device) SetPollLimit(limit int) {
	dev.pollLimit = limit
	switch c := dev.chip.(type) {
	case *MX29F040:
		c.pollLimit = limit
	case *MX29LV320:
		c.pollLimit = limit
	}
}

// Init probes the chip and selects the chip family. Returns the active Chip.
func (dev *Device) Init() Chip {
	lv := dev.newMX29LV320()
	id := lv.ReadSiliconID()
	if id == IDMX29LV320 || id == IDCompatible {
		dev.chip = lv
	} else {
		dev.chip = dev.newMX29F040()
	}
	logger.Logf(logger.Allow, "flash", "probe returned %#04x: using %s algorithm", id, dev.chip)
	return dev.chip
}

// Chip returns the active Chip.
func (dev *Device) Chip() Chip {
	return dev.chip
}

// ReadSiliconID implements the Chip interface.
func (dev *Device) ReadSiliconID() uint16 {
	return dev.chip.ReadSiliconID()
}

// Detect implements the Chip interface.
func (dev *Device) Detect() bool {
	return dev.chip.Detect()
}

// ChipErase implements the Chip interface.
func (dev *Device) ChipErase() error {
	return dev.chip.ChipErase()
}

// ProgramByte implements the Chip interface.
func (dev *Device) ProgramByte(address uint16, data uint8) error {
	return dev.chip.ProgramByte(address, data)
}

// ProgramBytes implements the Chip interface.
func (dev *Device) ProgramBytes(address uint16, data []uint8) error {
	return dev.chip.ProgramBytes(address, data)
}
