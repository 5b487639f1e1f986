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

// Package menu is the text command interface of the programmer. The host
// sends lines of text terminated by a carriage return and the menu replies
// with the result of the command followed by a prompt.
//
// Received characters are echoed back to the host. Line feeds are ignored.
// Commands are recognised by prefix, in the same way as the host tools
// expect:
//
//	init                 initialise mapper, detect cartridge size and flash
//	r addr [len]         read bytes from the 16-bit window (hex address)
//	dx                   download the ROM with XMODEM
//	ux                   upload and program flash with XMODEM
//	ce                   erase the flash chip
//	fw addr byte         program a byte at a linear address (hex values)
//	bc                   blank check the ROM
//	setromsize n         set the ROM size used by dx and bc (decimal)
//	version              print the firmware version
//	reset                reinitialise the programmer
//	?                    list commands
package menu
