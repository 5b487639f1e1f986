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

// Package flash implements the JEDEC style command sequences used to
// identify, erase and program the flash chips found in reprogrammable
// cartridges.
//
// Two chip families are supported. They share the same command set and
// differ only in the addresses used for the unlock cycles and the addresses
// of the silicon ID bytes:
//
//	MX29F040:  unlock 0x555/0x2aa, ID bytes at 0 and 1
//	MX29LV320: unlock 0xaaa/0x555, ID bytes at 0 and 2 (x16 part in byte mode)
//
// The Device type selects which of the two is active by probing the chip with
// the MX29LV320 sequence. If the response is not a recognised MX29LV320 ID
// then the MX29F040 is assumed.
//
// All addresses are 16-bit window addresses. Callers wanting to program a
// linear cartridge address must first select the bank with the mapper
// package.
//
// Completion of an erase or program operation is detected by DQ7 polling.
// By default the polling is unbounded, meaning that a chip which never
// completes will hang the caller. A poll limit can be set with
// Device.SetPollLimit(), in which case a HardwareFault error is returned
// when the limit is reached.
package flash
