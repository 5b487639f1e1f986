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

// Package simport connects the simulated programmer to the outside world.
//
// A PTY stands in for the USB serial port of the real programmer. The path of
// the pseudo-terminal can be given to the host tool (or any terminal program)
// as the name of the serial port.
//
// A Console connects the programmer directly to the terminal the program was
// started from. The terminal is put into raw mode so that control characters
// reach the programmer unchanged. Pressing CTRL+] ends the session.
package simport
