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

package xmodem_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/smsprogr/smsprogr/crc16"
	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/hardware/cartio"
	"github.com/smsprogr/smsprogr/hardware/cartsim"
	"github.com/smsprogr/smsprogr/hardware/flash"
	"github.com/smsprogr/smsprogr/hardware/mapper"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/test"
	"github.com/smsprogr/smsprogr/xmodem"
)

// script is a transport with all received bytes known in advance
type script struct {
	rx []uint8
	tx []uint8
}

func (s *script) HasData() bool {
	return len(s.rx) > 0
}

func (s *script) RxByte() uint8 {
	b := s.rx[0]
	s.rx = s.rx[1:]
	return b
}

func (s *script) TxByte(b uint8) {
	s.tx = append(s.tx, b)
}

func (s *script) TxBytes(p []uint8) {
	s.tx = append(s.tx, p...)
}

func (s *script) DoTasks() {}
func (s *script) Drain()   {}

func timing() xmodem.Timing {
	return xmodem.Timing{
		ByteWait: 3,
		Retries:  2,
		Sleep:    func(time.Duration) {},
	}
}

// packet builds a checksum mode packet
func packet(seq uint8, data []uint8) []uint8 {
	p := []uint8{xmodem.SOH, seq, ^seq}
	p = append(p, data...)
	return append(p, xmodem.Sum(data))
}

func block(v uint8) []uint8 {
	b := make([]uint8, xmodem.BlockSize)
	for i := range b {
		b[i] = v + uint8(i)
	}
	return b
}

type rig struct {
	cart   *cartsim.Cartridge
	s      *script
	engine *xmodem.Engine
	dev    *flash.Device
}

func newRig(c *cartsim.Cartridge) *rig {
	bus := cartio.NewAddressBus(c)
	mp := mapper.NewMapper(bus)
	mp.Init(mapper.Sega)
	dev := flash.NewDevice(bus)
	dev.Init()
	s := &script{}
	return &rig{
		cart:   c,
		s:      s,
		engine: xmodem.NewEngine(s, bus, mp, dev, timing()),
		dev:    dev,
	}
}

func TestUpload(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))

	r.s.rx = append(r.s.rx, packet(1, block(0x10))...)
	r.s.rx = append(r.s.rx, packet(2, block(0x80))...)
	r.s.rx = append(r.s.rx, xmodem.EOT)

	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)
	test.ExpectSuccess(t, o.Err)
	test.ExpectEquality(t, o.Session.Packets, 2)
	test.ExpectEquality(t, o.Session.Address, uint32(256))

	mem := r.cart.Memory()
	test.ExpectEquality(t, bytes.Equal(mem[0:128], block(0x10)), true)
	test.ExpectEquality(t, bytes.Equal(mem[128:256], block(0x80)), true)
	test.ExpectEquality(t, mem[256], uint8(0xff))

	test.ExpectEquality(t, string(r.s.tx), string([]uint8{xmodem.NAK, xmodem.ACK, xmodem.ACK, xmodem.ACK}))
}

func TestUploadDuplicate(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))

	r.s.rx = append(r.s.rx, packet(1, block(0x10))...)
	r.s.rx = append(r.s.rx, packet(1, block(0x10))...)
	r.s.rx = append(r.s.rx, packet(2, block(0x20))...)
	r.s.rx = append(r.s.rx, xmodem.EOT)

	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)
	test.ExpectEquality(t, o.Session.Packets, 2)
	test.ExpectEquality(t, o.Session.Duplicates, 1)
	test.ExpectEquality(t, o.Session.Address, uint32(256))

	// duplicate packet was not programmed
	test.ExpectEquality(t, r.cart.Programmed, 256)
	test.ExpectEquality(t, bytes.Equal(r.cart.Memory()[128:256], block(0x20)), true)
}

func TestUploadBadPacket(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))

	bad := packet(1, block(0x10))
	bad[len(bad)-1]++
	r.s.rx = append(r.s.rx, bad...)
	r.s.rx = append(r.s.rx, packet(1, block(0x10))...)
	r.s.rx = append(r.s.rx, xmodem.EOT)

	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)
	test.ExpectEquality(t, o.Session.Rejected, 1)
	test.ExpectEquality(t, o.Session.Packets, 1)
	test.ExpectEquality(t, string(r.s.tx), string([]uint8{xmodem.NAK, xmodem.NAK, xmodem.ACK, xmodem.ACK}))
}

func TestUploadCRC(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29LV320))
	r.engine.UploadCRC = true

	c := crc16.Checksum(block(0x33))
	r.s.rx = append(r.s.rx, xmodem.SOH, 1, 0xfe)
	r.s.rx = append(r.s.rx, block(0x33)...)
	r.s.rx = append(r.s.rx, uint8(c>>8), uint8(c))
	r.s.rx = append(r.s.rx, xmodem.EOT)

	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)
	test.ExpectEquality(t, o.Session.Mode, xmodem.CRC)
	test.ExpectEquality(t, r.s.tx[0], uint8(xmodem.CRCRequest))
	test.ExpectEquality(t, bytes.Equal(r.cart.Memory()[0:128], block(0x33)), true)
}

func TestUploadCancel(t *testing.T) {
	for _, b := range []uint8{xmodem.CAN, xmodem.ETX} {
		r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))
		r.s.rx = append(r.s.rx, packet(1, block(0x10))...)
		r.s.rx = append(r.s.rx, b)

		o, err := r.engine.Upload()
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, o.Status, xmodem.Cancelled)
		test.ExpectEquality(t, curated.Is(o.Err, xmodem.Aborted), true)

		// partial writes remain
		test.ExpectEquality(t, bytes.Equal(r.cart.Memory()[0:128], block(0x10)), true)
	}
}

func TestUploadTimeout(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))

	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.TimedOut)
	test.ExpectEquality(t, curated.Is(o.Err, xmodem.Timeout), true)

	// a prompt for each wait
	test.ExpectEquality(t, string(r.s.tx), string([]uint8{xmodem.NAK, xmodem.NAK}))
}

func TestUploadPartialPacket(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))
	r.s.rx = append(r.s.rx, packet(1, block(0x10))[:50]...)

	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.TimedOut)
	test.ExpectEquality(t, o.Session.Packets, 0)
	test.ExpectEquality(t, r.cart.Programmed, 0)
}

func TestUploadHardwareFault(t *testing.T) {
	c := cartsim.NewBlankFlash(cartsim.MX29F040)
	c.Stuck = true
	r := newRig(c)
	r.dev.SetPollLimit(10)
	r.s.rx = append(r.s.rx, packet(1, block(0x00))...)

	o, err := r.engine.Upload()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, flash.HardwareFault), true)
	test.ExpectEquality(t, o.Status, xmodem.Fault)
}

// split the output of a download into packets
func packets(t *testing.T, tx []uint8, mode xmodem.Mode) [][]uint8 {
	t.Helper()
	var p [][]uint8
	for len(tx) >= mode.PacketSize() {
		p = append(p, tx[:mode.PacketSize()])
		tx = tx[mode.PacketSize():]
	}
	test.DemandEquality(t, len(tx), 1)
	test.ExpectEquality(t, tx[0], uint8(xmodem.EOT))
	return p
}

func TestDownload128K(t *testing.T) {
	mem := make([]uint8, 128*1024)
	for i := range mem {
		mem[i] = uint8(i >> 7)
	}
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)
	r := newRig(c)

	r.s.rx = append(r.s.rx, xmodem.CRCRequest)
	r.s.rx = append(r.s.rx, bytes.Repeat([]uint8{xmodem.ACK}, 1025)...)

	o, err := r.engine.Download(len(mem))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)
	test.ExpectEquality(t, o.Session.Mode, xmodem.CRC)
	test.ExpectEquality(t, o.Session.Packets, 1024)

	p := packets(t, r.s.tx, xmodem.CRC)
	test.DemandEquality(t, len(p), 1024)

	expected := uint8(1)
	for i, pkt := range p {
		test.ExpectInequality(t, pkt[1], uint8(0), i)
		test.ExpectEquality(t, pkt[1], expected, i)
		test.ExpectEquality(t, pkt[2], ^expected, i)
		test.ExpectEquality(t, bytes.Equal(pkt[3:131], mem[i*128:(i+1)*128]), true, i)
		expected = xmodem.NextSeq(expected)
	}

	// sequence numbers after the first wrap
	test.ExpectEquality(t, p[254][1], uint8(255))
	test.ExpectEquality(t, p[255][1], uint8(1))

	// slots are restored
	test.ExpectEquality(t, c.Slot(0), uint8(0))
	test.ExpectEquality(t, c.Slot(1), uint8(1))
	test.ExpectEquality(t, c.Slot(2), uint8(2))
}

func TestDownloadRetransmit(t *testing.T) {
	mem := make([]uint8, 32*1024)
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)
	r := newRig(c)

	r.s.rx = []uint8{xmodem.NAK, xmodem.NAK, xmodem.ACK, xmodem.NAK, xmodem.ACK}

	o, err := r.engine.Download(100)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)
	test.ExpectEquality(t, o.Session.Mode, xmodem.Checksum)
	test.ExpectEquality(t, o.Session.Retransmits, 1)

	// packet, packet, EOT, EOT
	test.ExpectEquality(t, len(r.s.tx), 132*2+2)
	test.ExpectEquality(t, bytes.Equal(r.s.tx[0:132], r.s.tx[132:264]), true)
}

// rejectingBanker refuses every bank selection.
type rejectingBanker struct {
	calls int
}

func (rb *rejectingBanker) SetSlot(slot int, bank uint8) error {
	rb.calls++
	return curated.Errorf(mapper.InvalidSlot, slot)
}

func TestDownloadBankFailure(t *testing.T) {
	mem := make([]uint8, 32*1024)
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)

	bus := cartio.NewAddressBus(c)
	rb := &rejectingBanker{}
	s := &script{rx: []uint8{xmodem.NAK, xmodem.ACK, xmodem.ACK}}
	e := xmodem.NewEngine(s, bus, rb, flash.NewDevice(bus), timing())

	logger.Clear()
	o, err := e.Download(100)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Status, xmodem.Complete)

	// slots 0 and 1 selected then slot 2 restored. the block is read
	// directly so needs no selection
	test.ExpectEquality(t, rb.calls, 3)

	w := &test.Writer{}
	logger.Write(w)
	test.ExpectEquality(t, strings.Contains(w.String(), "select bank 2 in slot 2"), true)
}

func TestDownloadCancel(t *testing.T) {
	mem := make([]uint8, 32*1024)
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)

	r := newRig(c)
	r.s.rx = []uint8{'x', xmodem.ETX}
	o, _ := r.engine.Download(len(mem))
	test.ExpectEquality(t, o.Status, xmodem.Cancelled)
	test.ExpectEquality(t, len(r.s.tx), 0)

	r = newRig(c)
	r.s.rx = []uint8{xmodem.NAK, xmodem.ACK, xmodem.CAN}
	o, _ = r.engine.Download(len(mem))
	test.ExpectEquality(t, o.Status, xmodem.Cancelled)
	test.ExpectEquality(t, o.Session.Packets, 1)
}

func TestDownloadTimeout(t *testing.T) {
	mem := make([]uint8, 32*1024)
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)

	r := newRig(c)
	o, _ := r.engine.Download(len(mem))
	test.ExpectEquality(t, o.Status, xmodem.TimedOut)

	r = newRig(c)
	r.s.rx = []uint8{xmodem.NAK}
	o, _ = r.engine.Download(len(mem))
	test.ExpectEquality(t, o.Status, xmodem.TimedOut)
	test.ExpectEquality(t, o.Session.Packets, 0)
}

func TestRoundTrip(t *testing.T) {
	r := newRig(cartsim.NewBlankFlash(cartsim.MX29F040))

	data := block(0x5a)
	r.s.rx = append(r.s.rx, packet(1, data)...)
	r.s.rx = append(r.s.rx, xmodem.EOT)
	o, err := r.engine.Upload()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, o.Status, xmodem.Complete)

	r.s.tx = r.s.tx[:0]
	r.s.rx = []uint8{xmodem.NAK, xmodem.ACK, xmodem.ACK}
	o, err = r.engine.Download(len(data))
	test.DemandSuccess(t, err)
	test.DemandEquality(t, o.Status, xmodem.Complete)

	p := packets(t, r.s.tx, xmodem.Checksum)
	test.DemandEquality(t, len(p), 1)
	test.ExpectEquality(t, bytes.Equal(p[0][3:131], data), true)
}
