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

package usbcomm

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/smsprogr/smsprogr/logger"
)

// RxBufferSize is the size of the receive ring buffer. One slot is always
// left empty so the buffer can hold one less byte than this.
const RxBufferSize = 140

// TxBufferSize is the size of the transmit buffer.
const TxBufferSize = 63

// SendFunc hands bytes to the lower transport.
type SendFunc func(p []uint8) error

// Comm is the duplex byte channel to the host.
type Comm struct {
	rx   [RxBufferSize]uint8
	head atomic.Uint32
	tail atomic.Uint32

	tx    [TxBufferSize]uint8
	txLen int

	send SendFunc

	// the most recent error returned by the send function
	err error
}

// NewComm is the preferred method of initialisation for the Comm type.
func NewComm(send SendFunc) *Comm {
	return &Comm{
		send: send,
	}
}

// AddByte places a received byte in the ring buffer. Returns false if the
// buffer is full, in which case the byte has not been added and the producer
// should try again later.
func (c *Comm) AddByte(b uint8) bool {
	head := c.head.Load()
	next := (head + 1) % RxBufferSize
	if next == c.tail.Load() {
		return false
	}
	c.rx[head] = b
	c.head.Store(next)
	return true
}

// Feed copies bytes from the reader into the ring buffer until the reader
// returns an error. A full buffer is retried until there is space. Intended to
// be run in its own goroutine. The io.EOF error is not returned.
func (c *Comm) Feed(r io.Reader) error {
	b := make([]uint8, 64)
	for {
		n, err := r.Read(b)
		for _, v := range b[:n] {
			for !c.AddByte(v) {
				time.Sleep(time.Millisecond)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// HasData returns true if there is at least one byte in the ring buffer.
func (c *Comm) HasData() bool {
	return c.head.Load() != c.tail.Load()
}

// Buffered returns the number of bytes in the ring buffer.
func (c *Comm) Buffered() int {
	head := c.head.Load()
	tail := c.tail.Load()
	return int((head + RxBufferSize - tail) % RxBufferSize)
}

// RxByte removes the next byte from the ring buffer. Returns zero if the
// buffer is empty. Use HasData() first.
func (c *Comm) RxByte() uint8 {
	tail := c.tail.Load()
	if tail == c.head.Load() {
		return 0
	}
	b := c.rx[tail]
	c.tail.Store((tail + 1) % RxBufferSize)
	return b
}

// TxByte queues a single byte for transmission. The transmit buffer is handed
// to the lower transport if it is full.
func (c *Comm) TxByte(b uint8) {
	if c.txLen >= TxBufferSize {
		c.DoTasks()
	}
	c.tx[c.txLen] = b
	c.txLen++
}

// TxBytes queues bytes for transmission.
func (c *Comm) TxBytes(p []uint8) {
	for _, b := range p {
		c.TxByte(b)
	}
}

// DoTasks hands any queued bytes to the lower transport.
func (c *Comm) DoTasks() {
	if c.txLen == 0 {
		return
	}
	if c.send != nil {
		if err := c.send(c.tx[:c.txLen]); err != nil {
			if c.err == nil {
				logger.Logf(logger.Allow, "usbcomm", "send: %v", err)
			}
			c.err = err
		}
	}
	c.txLen = 0
}

// Drain blocks until all queued bytes have been handed to the lower
// transport.
func (c *Comm) Drain() {
	for c.txLen > 0 {
		c.DoTasks()
	}
}

// Err returns the most recent error from the lower transport.
func (c *Comm) Err() error {
	return c.err
}

// Write implements the io.Writer interface. A newline is sent as a carriage
// return followed by a newline. The returned count is of the bytes in p.
func (c *Comm) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			c.TxByte('\r')
		}
		c.TxByte(b)
	}
	c.Drain()
	return len(p), c.err
}
