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

// Package cartridge discovers the size and type of the inserted cartridge.
//
// ROM size is found by looking for the point at which the cartridge memory
// wraps around. The mapper does not decode address lines beyond the size of
// the ROM so a bank number past the end of the ROM shows an earlier bank.
// Banks 1, 2, 4, 8, 16 and 32 are compared against bank 0, first by the
// leading byte and then by a CRC of the entire bank. The first match gives
// the ROM size.
//
// A bank 2 that reads entirely as 0xff indicates a 32KiB cartridge without a
// mapper. Nothing drives the data bus for addresses above 0x7fff in those
// cartridges.
//
// Flash detection is delegated to the flash package. An unrecognised flash
// ID is not an error. The cartridge is still usable as a ROM.
package cartridge
