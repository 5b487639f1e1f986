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

// Package logger is the central log for the programmer. Entries are made up of
// a tag and a detail. The tag names the part of the system making the entry
// and the detail says what happened:
//
//	logger.Log(logger.Allow, "flash", "chip erase started")
//	logger.Logf(logger.Allow, "xmodem", "packet %d programmed at %06x", seq, addr)
//
// Consecutive entries with the same tag and detail are collapsed into a single
// entry with a repeat count.
//
// The first argument is a Permission. Callers that may want to suppress
// logging (a simulated cartridge during testing, for example) implement the
// Permission interface. Use logger.Allow to log unconditionally.
package logger
