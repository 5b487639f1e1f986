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

// Package hostlink is the host side of the connection to the programmer. It
// sends text commands, waits for the replies and runs the host side of the
// XMODEM transfers used to dump and program cartridges.
//
// The connection is normally a serial port, opened with Open(). Any
// io.ReadWriter can be used with NewLink(), which is how the tests connect
// directly to a simulated programmer.
package hostlink
