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

// Package mapper drives the bank switching hardware of a Sega style
// cartridge.
//
// The Z80 side of the cartridge connector sees a 64KiB address space. The
// lower 48KiB is divided into three 16KiB slots. Each slot can be pointed at
// any 16KiB bank of the cartridge memory by writing the bank number to the
// slot's register:
//
//	slot 0: 0x0000 to 0x3fff, register 0xfffd
//	slot 1: 0x4000 to 0x7fff, register 0xfffe
//	slot 2: 0x8000 to 0xbfff, register 0xffff
//
// The control register at 0xfffc is written once during initialisation.
//
// Programmer operations that span the cartridge linearly use Translate() to
// turn a linear cartridge address into a bank and a window address. The first
// 32KiB are always reached through slots 0 and 1 (which are left at banks 0
// and 1). Everything above that is reached through slot 2.
package mapper
