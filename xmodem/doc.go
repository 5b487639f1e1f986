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

// Package xmodem implements the XMODEM file transfer protocol in both
// directions and for both integrity modes.
//
// The Engine type is the programmer's side of the protocol. Upload() receives
// a ROM image from the host and programs it into the flash chip, 128 bytes at
// a time. Download() sends the contents of the cartridge to the host.
//
// The Engine never blocks waiting for the host. It polls the transport for
// received bytes, sleeping for a short interval between polls. The number of
// polls before a wait is considered to have failed, and the number of failed
// waits before the transfer is abandoned, are set by the Timing type.
//
// A transfer ends with one of the Status values in the Outcome. Timeout and
// cancellation are normal outcomes and are not returned as errors. The only
// error returned by the Engine is a hardware fault from the flash chip.
//
// Send() and Receive() are the host's side of the protocol. They work with any
// io.ReadWriter, normally a serial port.
//
// Packets have the following layout:
//
//	SOH, seq, ^seq, data[128], trailer
//
// The trailer is a single byte sum of the data in checksum mode and a big
// endian CRC-16/XMODEM of the data in CRC mode. Sequence numbers start at 1.
// Sequence numbers sent by this package never wrap to zero. After 255 the
// next sequence number is 1.
package xmodem
