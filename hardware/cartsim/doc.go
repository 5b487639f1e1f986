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

// Package cartsim is a simulated cartridge. It implements the cartio.Port
// interface and so can stand in for the cartridge connector in tests and in
// the simulated programmer.
//
// The simulation covers the Sega mapper registers, mirroring of the
// cartridge memory when the mapper selects a bank beyond the end of memory,
// and the command state machine of the two supported flash chip families:
// autoselect, chip erase, byte programming with DQ7 status reads while busy,
// and the reset command.
package cartsim
