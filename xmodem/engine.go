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

package xmodem

import (
	"fmt"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/logger"
)

// Transport is the byte channel to the host.
type Transport interface {
	HasData() bool
	RxByte() uint8
	TxByte(b uint8)
	TxBytes(p []uint8)
	DoTasks()
	Drain()
}

// Reader reads a byte from the cartridge's 16-bit window.
type Reader interface {
	Read(address uint16) uint8
}

// Banker selects the bank seen through a slot.
type Banker interface {
	SetSlot(slot int, bank uint8) error
}

// Programmer programs bytes into flash at a window address.
type Programmer interface {
	ProgramBytes(address uint16, data []uint8) error
}

// Direction of a transfer from the point of view of the programmer.
type Direction int

// List of valid Direction values.
const (
	Upload Direction = iota
	Download
)

func (d Direction) String() string {
	if d == Upload {
		return "upload"
	}
	return "download"
}

// Session is the state of a single transfer.
type Session struct {
	Direction Direction
	Mode      Mode

	// the sequence number of the next packet to send (download) or the
	// sequence number of the most recently accepted packet (upload)
	Seq uint8

	// linear cartridge address of the next block
	Address uint32

	// number of packets accepted or sent successfully
	Packets int

	// number of duplicate packets received (upload) or number of packets
	// that were retransmitted (download)
	Duplicates  int
	Retransmits int

	// number of packets that failed verification
	Rejected int
}

func (s Session) String() string {
	return fmt.Sprintf("%s (%s): %d packets, address %#06x", s.Direction, s.Mode, s.Packets, s.Address)
}

// Status is the terminal state of a transfer.
type Status int

// List of valid Status values.
const (
	Complete Status = iota
	Cancelled
	TimedOut
	Fault
)

func (st Status) String() string {
	switch st {
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	case TimedOut:
		return "timed out"
	case Fault:
		return "hardware fault"
	}
	return "unknown"
}

// Outcome is the result of a transfer.
type Outcome struct {
	Status  Status
	Session Session

	// the reason for a status other than Complete
	Err error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status.String()
}

// Engine is the programmer's side of the protocol.
type Engine struct {
	transport Transport
	bus       Reader
	banker    Banker
	flash     Programmer
	timing    Timing

	// UploadCRC requests CRC mode for uploads. Checksum mode is used
	// otherwise
	UploadCRC bool

	pkt [headerSize + BlockSize + 2]uint8
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine(transport Transport, bus Reader, banker Banker, flash Programmer, timing Timing) *Engine {
	return &Engine{
		transport: transport,
		bus:       bus,
		banker:    banker,
		flash:     flash,
		timing:    timing,
	}
}

// waitByte polls the transport for a byte. The second value is false if no
// byte arrived in the time allowed.
func (e *Engine) waitByte() (uint8, bool) {
	for range e.timing.ByteWait {
		e.transport.DoTasks()
		if e.transport.HasData() {
			return e.transport.RxByte(), true
		}
		e.timing.sleep()
	}
	return 0, false
}

func (e *Engine) end(s Session, status Status, err error) Outcome {
	o := Outcome{
		Status:  status,
		Session: s,
		Err:     err,
	}
	logger.Logf(logger.Allow, "xmodem", "%s: %s", s, o)
	return o
}

// upload states
type uploadState int

const (
	waitSOH uploadState = iota
	rxData
	processPacket
)

// Upload receives a ROM image from the host and programs it into flash,
// starting at linear address zero. Every block is programmed through slot 2.
//
// A packet with the same sequence number as the most recently accepted packet
// is acknowledged but not programmed. A packet that fails verification is
// answered with NAK and not programmed.
//
// The returned error is only non-nil for a hardware fault. The Outcome's Err
// field holds the reason for any other unsuccessful outcome.
func (e *Engine) Upload() (Outcome, error) {
	s := Session{
		Direction: Upload,
		Mode:      Checksum,
	}

	// the byte sent at the start of each wait for a packet
	var reply uint8 = NAK
	if e.UploadCRC {
		s.Mode = CRC
		reply = CRCRequest
	}

	size := s.Mode.PacketSize()
	pkt := e.pkt[:size]
	n := 0

	// whether a packet has been accepted. sequence number zero is a valid
	// (if unusual) first packet so Seq can't be used to indicate this
	accepted := false

	state := waitSOH
	retries := 0
	prompt := true

	for {
		switch state {
		case waitSOH:
			if prompt {
				e.transport.TxByte(reply)
				e.transport.Drain()
				prompt = false
			}

			b, ok := e.waitByte()
			if !ok {
				retries++
				if retries >= e.timing.Retries {
					return e.end(s, TimedOut, curated.Errorf(Timeout)), nil
				}
				prompt = true
				continue
			}
			retries = 0

			switch b {
			case SOH:
				pkt[0] = b
				n = 1
				state = rxData
			case ETX, CAN:
				return e.end(s, Cancelled, curated.Errorf(Aborted)), nil
			case EOT:
				e.transport.TxByte(ACK)
				e.transport.Drain()
				return e.end(s, Complete, nil), nil
			}

		case rxData:
			b, ok := e.waitByte()
			if !ok {
				// partial packet. ask for it again
				retries++
				if retries >= e.timing.Retries {
					return e.end(s, TimedOut, curated.Errorf(Timeout)), nil
				}
				s.Rejected++
				reply = NAK
				prompt = true
				state = waitSOH
				continue
			}
			pkt[n] = b
			n++
			if n == size {
				state = processPacket
			}

		case processPacket:
			state = waitSOH
			prompt = true

			if !verify(pkt, s.Mode) {
				s.Rejected++
				reply = NAK
				continue
			}

			seq := pkt[1]
			if accepted && seq == s.Seq {
				s.Duplicates++
				reply = ACK
				continue
			}

			if err := e.program(s.Address, pkt[headerSize:headerSize+BlockSize]); err != nil {
				return e.end(s, Fault, err), err
			}

			accepted = true
			s.Seq = seq
			s.Address += BlockSize
			s.Packets++
			reply = ACK
		}
	}
}

// program a block through slot 2
func (e *Engine) program(address uint32, data []uint8) error {
	if err := e.banker.SetSlot(2, uint8(address>>14)); err != nil {
		return err
	}
	return e.flash.ProgramBytes(0x8000|uint16(address&0x3fff), data)
}

// selectBank is used for the slots fixed by the engine. the only error
// SetSlot() can return is for a slot outside the range 0 to 2 so a failure
// here is a programming error. it is logged rather than ending the transfer
func (e *Engine) selectBank(slot int, bank uint8) {
	if err := e.banker.SetSlot(slot, bank); err != nil {
		logger.Logf(logger.Allow, "xmodem", "select bank %d in slot %d: %v", bank, slot, err)
	}
}

// read a block into dst. the first 32KiB are read directly through slots 0
// and 1, everything else through slot 2
func (e *Engine) read(address uint32, dst []uint8) {
	if address < 0x8000 {
		for i := range dst {
			dst[i] = e.bus.Read(uint16(address) + uint16(i))
		}
		return
	}
	e.selectBank(2, uint8(address>>14))
	w := 0x8000 | uint16(address&0x3fff)
	for i := range dst {
		dst[i] = e.bus.Read(w + uint16(i))
	}
}

// waitResponse waits for one of the bytes that can follow a packet or EOT.
// Other bytes are ignored. The second value is false if the retry budget is
// exhausted
func (e *Engine) waitResponse(retries *int) (uint8, bool) {
	for {
		b, ok := e.waitByte()
		if !ok {
			*retries++
			if *retries >= e.timing.Retries {
				return 0, false
			}
			// no response is treated like NAK
			return NAK, true
		}
		switch b {
		case ACK, NAK, CAN, ETX:
			return b, true
		}
	}
}

// Download sends the first romSize bytes of the cartridge to the host. The
// host chooses the integrity mode by sending 'C' or NAK.
//
// On return slots 0, 1 and 2 are pointing at banks 0, 1 and 2.
//
// Download never returns an error. The return signature matches Upload() for
// convenience.
func (e *Engine) Download(romSize int) (Outcome, error) {
	s := Session{
		Direction: Download,
		Seq:       1,
	}

	e.selectBank(0, 0)
	e.selectBank(1, 1)
	defer e.selectBank(2, 2)

	// wait for the host to choose the integrity mode
	retries := 0
	for ready := false; !ready; {
		b, ok := e.waitByte()
		if !ok {
			retries++
			if retries >= e.timing.Retries {
				return e.end(s, TimedOut, curated.Errorf(Timeout)), nil
			}
			continue
		}
		switch b {
		case ETX, CAN:
			return e.end(s, Cancelled, curated.Errorf(Aborted)), nil
		case CRCRequest:
			s.Mode = CRC
			ready = true
		case NAK:
			s.Mode = Checksum
			ready = true
		}
	}

	pkt := e.pkt[:s.Mode.PacketSize()]
	var block [BlockSize]uint8
	retries = 0

	for range Blocks(romSize) {
		e.read(s.Address, block[:])
		encode(pkt, s.Mode, s.Seq, block[:])

		for sent := false; !sent; {
			e.transport.TxBytes(pkt)
			e.transport.Drain()

			b, ok := e.waitResponse(&retries)
			if !ok {
				return e.end(s, TimedOut, curated.Errorf(Timeout)), nil
			}

			switch b {
			case ACK:
				sent = true
				retries = 0
			case NAK:
				s.Retransmits++
			default:
				return e.end(s, Cancelled, curated.Errorf(Aborted)), nil
			}
		}

		s.Packets++
		s.Address += BlockSize
		s.Seq = NextSeq(s.Seq)
	}

	for {
		e.transport.TxByte(EOT)
		e.transport.Drain()

		b, ok := e.waitResponse(&retries)
		if !ok {
			return e.end(s, TimedOut, curated.Errorf(Timeout)), nil
		}

		switch b {
		case ACK:
			return e.end(s, Complete, nil), nil
		case NAK:
			continue
		default:
			return e.end(s, Cancelled, curated.Errorf(Aborted)), nil
		}
	}
}
