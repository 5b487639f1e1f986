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

// Package usbcomm is the byte transport between the programmer and the host.
//
// Received bytes are placed in a small ring buffer by the producer (the USB
// receive path on real hardware, a goroutine reading a pseudo-terminal in the
// simulation). The consumer polls HasData() and takes bytes with RxByte().
// The ring buffer uses a pair of atomic cursors. The producer only ever moves
// the head and the consumer only ever moves the tail, so no other locking is
// needed.
//
// Transmitted bytes are collected in a buffer the size of a single USB
// packet. DoTasks() hands the buffer to the lower transport and Drain()
// blocks until everything queued has been handed over.
//
// Comm also implements io.Writer for text output. Newlines are translated
// into a carriage-return and newline pair.
package usbcomm
