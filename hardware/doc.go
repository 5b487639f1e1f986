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

// Package hardware is the cartridge programmer. The Programmer type owns the
// cartridge bus, the mapper, the flash device and the most recent cartridge
// profile. It exposes the operations used by the command dispatcher.
//
// The sub-packages implement the individual parts of the programmer:
//
//	cartio:    the cartridge bus
//	mapper:    bank switching
//	flash:     flash chip algorithms
//	cartridge: detection of ROM size and flash chip
//	cartsim:   a simulated cartridge
//
// A Programmer is not safe for concurrent use. On the real hardware all
// operations happen in a single execution context and the simulation keeps
// to the same model. The only exception is the receive side of the transport,
// which is designed to be fed from another goroutine.
package hardware
