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
	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/hardware/cartio"
)

// Sentinal error patterns.
const (
	HardwareFault = "flash: hardware fault: %s did not complete at %#04x"
)

// Chip is the capability set of a flash chip family.
type Chip interface {
	// ReadSiliconID puts the chip into autoselect mode, reads the two ID
	// bytes and resets the chip. The low byte is the manufacturer ID and the
	// high byte is the device ID.
	ReadSiliconID() uint16

	// Detect returns true if the memory at the ID addresses is different to
	// the autoselect response. A ROM will return its data in both cases.
	Detect() bool

	// ChipErase erases the entire chip. Memory reads as 0xff afterwards.
	ChipErase() error

	// ProgramByte programs a single byte at the window address.
	ProgramByte(address uint16, data uint8) error

	// ProgramBytes programs consecutive bytes starting at the window
	// address.
	ProgramBytes(address uint16, data []uint8) error

	String() string
}

// command bytes
const (
	cmdUnlock1    = 0xaa
	cmdUnlock2    = 0x55
	cmdAutoselect = 0x90
	cmdEraseSetup = 0x80
	cmdChipErase  = 0x10
	cmdProgram    = 0xa0
	cmdReset      = 0xf0
)

// dq7 is the data polling bit
const dq7 = 0x80

// algorithm is the command sequencing shared by both chip families
type algorithm struct {
	bus cartio.Bus

	unlock1 uint16
	unlock2 uint16

	idManufacturer uint16
	idDevice       uint16

	// zero means unbounded
	pollLimit int
}

func (alg *algorithm) command(cmd uint8) {
	alg.bus.Write(alg.unlock1, cmdUnlock1)
	alg.bus.Write(alg.unlock2, cmdUnlock2)
	alg.bus.Write(alg.unlock1, cmd)
}

func (alg *algorithm) reset() {
	alg.bus.Write(0x0000, cmdReset)
}

// poll waits for bit 7 of the address to equal the expected value
func (alg *algorithm) poll(address uint16, expected uint8, operation string) error {
	expected &= dq7
	for n := 0; alg.pollLimit <= 0 || n < alg.pollLimit; n++ {
		if alg.bus.Read(address)&dq7 == expected {
			return nil
		}
	}
	alg.reset()
	return curated.Errorf(HardwareFault, operation, address)
}

func (alg *algorithm) readID() uint16 {
	lo := alg.bus.Read(alg.idManufacturer)
	hi := alg.bus.Read(alg.idDevice)
	return uint16(hi)<<8 | uint16(lo)
}

// ReadSiliconID implements the Chip interface.
func (alg *algorithm) ReadSiliconID() uint16 {
	alg.command(cmdAutoselect)
	id := alg.readID()
	alg.reset()
	return id
}

// Detect implements the Chip interface.
func (alg *algorithm) Detect() bool {
	mem := alg.readID()
	return mem != alg.ReadSiliconID()
}

// ChipErase implements the Chip interface.
func (alg *algorithm) ChipErase() error {
	alg.command(cmdEraseSetup)
	alg.command(cmdChipErase)
	if err := alg.poll(0x0000, dq7, "chip erase"); err != nil {
		return err
	}
	alg.reset()
	return nil
}

// ProgramByte implements the Chip interface.
func (alg *algorithm) ProgramByte(address uint16, data uint8) error {
	alg.command(cmdProgram)
	alg.bus.Write(address, data)
	return alg.poll(address, data, "program")
}

// ProgramBytes implements the Chip interface.
func (alg *algorithm) ProgramBytes(address uint16, data []uint8) error {
	for _, d := range data {
		if err := alg.ProgramByte(address, d); err != nil {
			return err
		}
		address++
	}
	return nil
}

// MX29F040 is the 512KiB x8 flash chip and the default chip family.
type MX29F040 struct {
	algorithm
}

// NewMX29F040 is the preferred method of initialisation for the MX29F040
// type.
func NewMX29F040(bus cartio.Bus) *MX29F040 {
	return &MX29F040{
		algorithm: algorithm{
			bus:            bus,
			unlock1:        0x0555,
			unlock2:        0x02aa,
			idManufacturer: 0x0000,
			idDevice:       0x0001,
		},
	}
}

func (*MX29F040) String() string {
	return "29F040"
}

// MX29LV320 is the 4MiB x8/x16 flash chip, used in byte mode.
type MX29LV320 struct {
	algorithm
}

// NewMX29LV320 is the preferred method of initialisation for the MX29LV320
// type.
func NewMX29LV320(bus cartio.Bus) *MX29LV320 {
	return &MX29LV320{
		algorithm: algorithm{
			bus:            bus,
			unlock1:        0x0aaa,
			unlock2:        0x0555,
			idManufacturer: 0x0000,
			idDevice:       0x0002,
		},
	}
}

func (*MX29LV320) String() string {
	return "29LV320"
}
