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

package menu_test

import (
	"strings"
	"testing"

	"github.com/smsprogr/smsprogr/hardware"
	"github.com/smsprogr/smsprogr/hardware/cartsim"
	"github.com/smsprogr/smsprogr/menu"
	"github.com/smsprogr/smsprogr/test"
	"github.com/smsprogr/smsprogr/usbcomm"
	"github.com/smsprogr/smsprogr/xmodem"
)

type rig struct {
	cart *cartsim.Cartridge
	out  *test.Writer
	comm *usbcomm.Comm
	menu *menu.Menu
}

func newRig(t *testing.T, c *cartsim.Cartridge) *rig {
	t.Helper()
	r := &rig{
		cart: c,
		out:  &test.Writer{},
	}
	r.comm = usbcomm.NewComm(func(p []uint8) error {
		_, err := r.out.Write(p)
		return err
	})
	prg, err := hardware.NewProgrammer(c, r.comm, nil)
	test.DemandSuccess(t, err)
	prg.SetQuiet(true)
	r.menu = menu.NewMenu(prg, r.comm)
	return r
}

// send a command line and return the response
func (r *rig) send(line string) string {
	r.out.Clear()
	for _, b := range []uint8(line + "\r\n") {
		r.comm.AddByte(b)
	}
	r.menu.Service()
	return r.out.String()
}

func rom(t *testing.T, size int) *cartsim.Cartridge {
	t.Helper()
	mem := make([]uint8, size)
	for i := range mem {
		mem[i] = uint8(i/0x4000 + i)
	}
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)
	return c
}

func TestVersion(t *testing.T) {
	r := newRig(t, rom(t, 32*1024))
	s := r.send("version")

	// the host tools look for the echoed command and the version line
	test.ExpectEquality(t, strings.HasPrefix(s, "version\r\n"), true)
	test.ExpectEquality(t, strings.Contains(s, "Version: 1.3\r\n"), true)
	test.ExpectEquality(t, strings.HasSuffix(s, "\r\n> "), true)
}

func TestEmptyAndUnknown(t *testing.T) {
	r := newRig(t, rom(t, 32*1024))
	test.ExpectEquality(t, r.send(""), "\r\n> ")
	test.ExpectEquality(t, r.send("xyz"), "xyz\r\nERROR\r\n\r\n> ")

	s := r.send("?")
	test.ExpectEquality(t, strings.Contains(s, "Supported commands:"), true)
	test.ExpectEquality(t, strings.Contains(s, "  ux    Upload and program FLASH with XModem"), true)
}

func TestEcho(t *testing.T) {
	r := newRig(t, rom(t, 32*1024))
	r.menu.Echo = false
	test.ExpectEquality(t, r.send("xyz"), "\r\nERROR\r\n\r\n> ")
}

func TestLineTooLong(t *testing.T) {
	r := newRig(t, rom(t, 32*1024))
	r.menu.Echo = false
	s := r.send(strings.Repeat("a", menu.LineSize))
	test.ExpectEquality(t, strings.HasPrefix(s, "Line too long\r\n"), true)
}

func TestInit(t *testing.T) {
	r := newRig(t, rom(t, 64*1024))
	s := r.send("init")
	test.ExpectEquality(t, strings.Contains(s, "ROM size set to 65536\r\n"), true)
	test.ExpectEquality(t, strings.Contains(s, "Cartridge type: ROM\r\n"), true)

	c := cartsim.NewBlankFlash(cartsim.MX29F040)
	r = newRig(t, c)
	s = r.send("init")
	test.ExpectEquality(t, strings.Contains(s, "Manufacturer ID=0xc2, Device=0xa4 => MX29F040 (supported)"), true)
}

func TestRead(t *testing.T) {
	r := newRig(t, rom(t, 32*1024))
	r.menu.Echo = false
	test.ExpectEquality(t, r.send("r 4000 3"), "\r\nRead 3 bytes from 0x4000 : 01 02 03 \r\n> ")
	test.ExpectEquality(t, r.send("r 10"), "\r\nRead 1 bytes from 0x0010 : 10 \r\n> ")
	test.ExpectEquality(t, r.send("r zz"), "\r\nERROR\r\n> ")

	// lengths larger than the 16-bit window are refused
	test.ExpectEquality(t, r.send("r 0 65537"), "\r\nERROR\r\n> ")
	test.ExpectEquality(t, r.send("r 0 999999999999999999"), "\r\nERROR\r\n> ")
}

func TestFlashCommands(t *testing.T) {
	c := cartsim.NewBlankFlash(cartsim.MX29F040)
	r := newRig(t, c)
	r.menu.Echo = false

	s := r.send("fw 12345 5a")
	test.ExpectEquality(t, s, "\r\nProgram 0x5a at address 0x12345\r\n> ")
	test.ExpectEquality(t, c.Memory()[0x12345], uint8(0x5a))
	test.ExpectEquality(t, c.Slot(2), uint8(2))

	s = r.send("setromsize 131072")
	test.ExpectEquality(t, strings.Contains(s, "ROM size set to 131072"), true)
	s = r.send("bc")
	test.ExpectEquality(t, strings.Contains(s, "Not blank at 0x012345"), true)

	s = r.send("ce")
	test.ExpectEquality(t, strings.Contains(s, "Done."), true)
	s = r.send("bc")
	test.ExpectEquality(t, strings.Contains(s, "Blank\r\n"), true)

	s = r.send("setromsize x")
	test.ExpectEquality(t, strings.Contains(s, "ERROR"), true)
}

func TestTransferCancel(t *testing.T) {
	r := newRig(t, rom(t, 32*1024))
	r.menu.Echo = false

	s := r.send("dx\r" + string([]uint8{xmodem.ETX}))
	test.ExpectEquality(t, strings.Contains(s, "Dumping the rom using XMmodem. 256 blocks."), true)
	test.ExpectEquality(t, strings.Contains(s, "Transfer cancelled."), true)

	s = r.send("ux\r" + string([]uint8{xmodem.CAN}))
	test.ExpectEquality(t, strings.Contains(s, "READY. Please start uploading."), true)
	test.ExpectEquality(t, strings.Contains(s, "Upload interrupted"), true)
}
