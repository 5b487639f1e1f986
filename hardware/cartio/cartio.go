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

package cartio

// Port is the electrical interface to the cartridge connector.
type Port interface {
	// Latch the 16-bit address into the address latch.
	Latch(address uint16)

	// Read strobes the chip-enable and read lines and returns the value on
	// the data bus.
	Read() uint8

	// Write drives the data bus and strobes the chip-enable and write lines.
	// When clk is true the clock line is also pulsed during the write strobe.
	// Mapper registers only latch a value on a clocked write.
	Write(data uint8, clk bool)
}

// Bus is the interface to the cartridge through a 16-bit address window.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
	WriteClk(address uint16, data uint8)
}

// Stats records the number of bus transactions.
type Stats struct {
	Latches int
	Reads   int
	Writes  int
}

// AddressBus implements the Bus interface for a Port.
type AddressBus struct {
	port Port

	// the address currently held by the address latch. valid is false until
	// the first access
	current uint16
	valid   bool

	Stats Stats
}

// NewAddressBus is the preferred method of initialisation for the AddressBus
// type.
func NewAddressBus(port Port) *AddressBus {
	return &AddressBus{
		port: port,
	}
}

func (b *AddressBus) setAddress(address uint16) {
	if b.valid && address == b.current {
		return
	}
	b.port.Latch(address)
	b.current = address
	b.valid = true
	b.Stats.Latches++
}

// Invalidate forgets the latched address. The next access will always latch
// the address. Required if something other than the AddressBus has driven
// the address lines.
func (b *AddressBus) Invalidate() {
	b.valid = false
}

// Read implements the Bus interface.
func (b *AddressBus) Read(address uint16) uint8 {
	b.setAddress(address)
	b.Stats.Reads++
	return b.port.Read()
}

// Write implements the Bus interface.
func (b *AddressBus) Write(address uint16, data uint8) {
	b.setAddress(address)
	b.Stats.Writes++
	b.port.Write(data, false)
}

// WriteClk implements the Bus interface.
func (b *AddressBus) WriteClk(address uint16, data uint8) {
	b.setAddress(address)
	b.Stats.Writes++
	b.port.Write(data, true)
}

// ReadBytes fills dst with consecutive bytes starting at address. The address
// wraps at the top of the 16-bit window.
func (b *AddressBus) ReadBytes(address uint16, dst []uint8) {
	for i := range dst {
		dst[i] = b.Read(address)
		address++
	}
}
