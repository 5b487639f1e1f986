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
	"errors"
	"io"
	"time"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/logger"
)

// HostOptions control the host side of a transfer.
type HostOptions struct {
	// how long to wait for a byte from the programmer
	Timeout time.Duration

	// number of timeouts or rejected packets before the transfer is
	// abandoned
	Retries int

	// Receive() requests CRC mode if this is true
	CRC bool

	// called after every packet with the number of bytes transferred so far
	Progress func(n int)
}

// DefaultHostOptions are suitable for the physical programmer.
func DefaultHostOptions() HostOptions {
	return HostOptions{
		Timeout: 6 * time.Second,
		Retries: 10,
		CRC:     true,
	}
}

// host wraps the connection to the programmer
type host struct {
	rw   io.ReadWriter
	opts HostOptions
}

// readByte waits for a single byte. a read of zero bytes, with or without
// io.EOF, is retried until the timeout. serial ports opened with an
// inter-character timeout behave like this
func (h *host) readByte() (uint8, error) {
	deadline := time.Now().Add(h.opts.Timeout)
	var b [1]uint8
	for {
		n, err := h.rw.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if time.Now().After(deadline) {
			return 0, curated.Errorf(Timeout)
		}
		if n == 0 && err == nil {
			time.Sleep(time.Millisecond)
		}
	}
}

func (h *host) write(p ...uint8) error {
	_, err := h.rw.Write(p)
	return err
}

// Send transmits data to an XMODEM receiver. The integrity mode is chosen by
// the receiver. The final block is padded with 0xff.
func Send(rw io.ReadWriter, data []uint8, opts HostOptions) error {
	h := &host{rw: rw, opts: opts}

	// wait for the receiver to prompt
	var mode Mode
	retries := 0
	for ready := false; !ready; {
		b, err := h.readByte()
		if err != nil {
			if curated.Is(err, Timeout) {
				retries++
				if retries < opts.Retries {
					continue
				}
			}
			return err
		}
		switch b {
		case NAK:
			mode = Checksum
			ready = true
		case CRCRequest:
			mode = CRC
			ready = true
		case CAN, ETX:
			return curated.Errorf(Aborted)
		}
	}

	logger.Logf(logger.Allow, "xmodem", "sending %d bytes (%s)", len(data), mode)

	pkt := make([]uint8, mode.PacketSize())
	block := make([]uint8, BlockSize)
	seq := uint8(1)

	for i := 0; i < len(data); i += BlockSize {
		n := copy(block, data[i:])
		for j := n; j < BlockSize; j++ {
			block[j] = 0xff
		}
		encode(pkt, mode, seq, block)

		if err := h.sendWithAck(pkt); err != nil {
			return err
		}

		seq = NextSeq(seq)
		if opts.Progress != nil {
			opts.Progress(min(i+BlockSize, len(data)))
		}
	}

	return h.sendWithAck([]uint8{EOT})
}

// sendWithAck sends p and waits for ACK, resending on NAK
func (h *host) sendWithAck(p []uint8) error {
	retries := 0
	for {
		if _, err := h.rw.Write(p); err != nil {
			return err
		}

		for waiting := true; waiting; {
			b, err := h.readByte()
			if err != nil {
				if !curated.Is(err, Timeout) {
					return err
				}
				b = NAK
			}

			switch b {
			case ACK:
				return nil
			case NAK, CRCRequest:
				retries++
				if retries >= h.opts.Retries {
					if err != nil {
						return err
					}
					return curated.Errorf(Protocol, "too many retries")
				}
				waiting = false
			case CAN, ETX:
				return curated.Errorf(Aborted)
			}
		}
	}
}

// Receive reads a transfer from an XMODEM sender. Bytes that arrive before the
// first packet, other than the control bytes, are ignored.
//
// Duplicate packets are acknowledged and discarded. The packet after sequence
// number 255 can have a sequence number of zero or one.
func Receive(rw io.ReadWriter, opts HostOptions) ([]uint8, error) {
	h := &host{rw: rw, opts: opts}

	mode := Checksum
	var reply uint8 = NAK
	if opts.CRC {
		mode = CRC
		reply = CRCRequest
	}

	pkt := make([]uint8, mode.PacketSize())
	data := make([]uint8, 0, 64*1024)

	last := uint8(0)
	started := false
	retries := 0

	if err := h.write(reply); err != nil {
		return nil, err
	}

	for {
		b, err := h.readByte()
		if err != nil {
			if !curated.Is(err, Timeout) {
				return data, err
			}
			retries++
			if retries >= opts.Retries {
				_ = h.write(CAN, CAN)
				return data, err
			}
			if !started {
				err = h.write(reply)
			} else {
				err = h.write(NAK)
			}
			if err != nil {
				return data, err
			}
			continue
		}

		switch b {
		case EOT:
			return data, h.write(ACK)
		case CAN, ETX:
			return data, curated.Errorf(Aborted)
		case SOH:
		default:
			continue
		}

		pkt[0] = b
		for i := 1; i < len(pkt) && err == nil; i++ {
			pkt[i], err = h.readByte()
		}
		if err != nil {
			if !curated.Is(err, Timeout) {
				return data, err
			}
			retries++
			if retries >= opts.Retries {
				return data, err
			}
			if err := h.write(NAK); err != nil {
				return data, err
			}
			continue
		}

		if !verify(pkt, mode) {
			retries++
			if retries >= opts.Retries {
				_ = h.write(CAN, CAN)
				return data, curated.Errorf(Protocol, "too many bad packets")
			}
			if err := h.write(NAK); err != nil {
				return data, err
			}
			continue
		}

		seq := pkt[1]
		switch {
		case started && seq == last:
			// duplicate
		case !started && seq == 1, started && (seq == last+1 || seq == NextSeq(last)):
			data = append(data, pkt[headerSize:headerSize+BlockSize]...)
			last = seq
			started = true
			if opts.Progress != nil {
				opts.Progress(len(data))
			}
		default:
			_ = h.write(CAN, CAN)
			return data, curated.Errorf(Protocol, "sequence error")
		}

		retries = 0
		if err := h.write(ACK); err != nil {
			return data, err
		}
	}
}
