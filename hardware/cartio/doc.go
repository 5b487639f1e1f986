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

// Package cartio is the lowest layer of the cartridge programmer. It turns
// the electrical interface of the cartridge connector (the Port) into byte
// wide reads and writes at a 16-bit address (the AddressBus).
//
// Setting the address on the connector takes four latch pulses, one for each
// nibble of the address. The AddressBus remembers the most recently latched
// address and skips the latch pulses when the next access is to the same
// address. Polling loops that repeatedly read the same location (flash
// completion polling, for example) benefit most from this.
//
// Every other part of the programmer accesses the cartridge through the Bus
// interface. The AddressBus is the only implementation outside of tests.
package cartio
