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

package menu

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/smsprogr/smsprogr/hardware"
	"github.com/smsprogr/smsprogr/hardware/cartridge"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/version"
	"github.com/smsprogr/smsprogr/xmodem"
)

// Comm is the byte channel to the host.
type Comm interface {
	io.Writer
	HasData() bool
	RxByte() uint8
	TxByte(b uint8)
	DoTasks()
	Drain()
}

// LineSize is the maximum length of a command line.
const LineSize = 24

// Prompt is printed after every command.
const Prompt = "> "

// the largest number of bytes the read command will read. the whole of the
// 16-bit window
const maxRead = 0x10000

const (
	cmdInit       = "init"
	cmdRead       = "r "
	cmdDownload   = "dx"
	cmdUpload     = "ux"
	cmdChipErase  = "ce"
	cmdFlashWrite = "fw"
	cmdBlankCheck = "bc"
	cmdSetROMSize = "setromsize"
	cmdVersion    = "version"
	cmdReset      = "reset"
)

// commands in the order they are matched and listed
var commands = []string{
	cmdInit,
	cmdRead,
	cmdDownload,
	cmdUpload,
	cmdChipErase,
	cmdFlashWrite,
	cmdBlankCheck,
	cmdSetROMSize,
	cmdVersion,
	cmdReset,
}

var help = map[string]string{
	cmdInit:       "Init. mapper hw, detect cart size, detect flash...",
	cmdRead:       "addresshex [length]",
	cmdDownload:   "Download the ROM with XModem",
	cmdUpload:     "Upload and program FLASH with XModem",
	cmdChipErase:  "Perform a chip erase operation",
	cmdFlashWrite: "addresshex hexbyte",
	cmdBlankCheck: "Check that the ROM area is blank",
	cmdSetROMSize: "size in bytes (decimal)",
	cmdVersion:    "Print the firmware version",
	cmdReset:      "Reinitialise the programmer",
}

// Menu is the command interface.
type Menu struct {
	prg  *hardware.Programmer
	comm Comm

	line []uint8

	// Echo received characters back to the host
	Echo bool

	// time between polls of the transport in Run()
	PollInterval time.Duration
}

// NewMenu is the preferred method of initialisation for the Menu type.
func NewMenu(prg *hardware.Programmer, comm Comm) *Menu {
	return &Menu{
		prg:          prg,
		comm:         comm,
		line:         make([]uint8, 0, LineSize),
		Echo:         true,
		PollInterval: time.Millisecond,
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.comm, format, args...)
}

// Ready prints the startup message.
func (m *Menu) Ready() {
	m.printf("Ready!\n")
}

// Service handles any received bytes. Returns true if at least one byte was
// handled.
func (m *Menu) Service() bool {
	m.comm.DoTasks()

	handled := false
	for m.comm.HasData() {
		handled = true

		b := m.comm.RxByte()
		switch b {
		case '\n':
		case '\r':
			m.HandleLine(string(m.line))
			m.line = m.line[:0]
		default:
			if m.Echo {
				m.comm.TxByte(b)
				m.comm.Drain()
			}
			m.line = append(m.line, b)
			if len(m.line) >= LineSize {
				m.line = m.line[:0]
				m.printf("Line too long\n")
			}
		}
	}

	return handled
}

// Run services the transport until the context is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	m.Ready()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !m.Service() {
			time.Sleep(m.PollInterval)
		}
	}
}

// HandleLine executes a single command line.
func (m *Menu) HandleLine(line string) {
	defer m.printf(Prompt)

	for _, cmd := range commands {
		if strings.HasPrefix(line, cmd) {
			logger.Logf(m.prg, "menu", "%q", line)
			m.printf("\n")
			m.execute(cmd, strings.Fields(line[len(cmd):]))
			return
		}
	}

	m.printf("\n")
	switch {
	case len(line) == 0:
	case line[0] == '?':
		m.printf("Supported commands:\n")
		for _, cmd := range commands {
			m.printf("  %s    %s\n", cmd, help[cmd])
		}
		m.printf("\n")
	default:
		m.printf("ERROR\n\n")
	}
}

func (m *Menu) execute(cmd string, args []string) {
	switch cmd {
	case cmdInit:
		m.initCart()
	case cmdRead:
		m.read(args)
	case cmdDownload:
		m.download()
	case cmdUpload:
		m.upload()
	case cmdChipErase:
		m.chipErase()
	case cmdFlashWrite:
		m.flashWrite(args)
	case cmdBlankCheck:
		m.blankCheck()
	case cmdSetROMSize:
		m.setROMSize(args)
	case cmdVersion:
		m.printf("Version: %s\n", version.Number())
	case cmdReset:
		m.prg.Init(m.prg.Mapper.Kind())
		m.prg.FlashInit()
		m.prg.Profile = cartridge.NewProfile()
		m.printf("Reset\n")
	}
}

func (m *Menu) hex(data []uint8) {
	for _, b := range data {
		m.printf("%02x ", b)
	}
}

func (m *Menu) initCart() {
	pr := m.prg.DetectCartridge()

	m.printf(" ")
	m.hex(pr.Header.Raw[:])
	m.printf("\n")
	if pr.Header.Valid {
		m.printf("Header: %s\n", pr.Header)
	}
	m.printf("ROM size set to %d\n", pr.ROMSize)

	if pr.Flash {
		m.printf("Cartridge type: FLASH. Manufacturer ID=0x%02x, Device=0x%02x => %s\n",
			uint8(pr.FlashID), uint8(pr.FlashID>>8), pr.FlashInfo)
	} else {
		m.printf("Cartridge type: ROM\n")
	}
}

func (m *Menu) read(args []string) {
	if len(args) < 1 {
		m.printf("ERROR\n")
		return
	}
	address, err := strconv.ParseUint(args[0], 16, 16)
	if err != nil {
		m.printf("ERROR\n")
		return
	}
	n := 1
	if len(args) > 1 {
		n, err = strconv.Atoi(args[1])
		if err != nil || n < 0 || n > maxRead {
			m.printf("ERROR\n")
			return
		}
	}

	data := make([]uint8, n)
	m.prg.Bus.ReadBytes(uint16(address), data)

	m.printf("Read %d bytes from 0x%04x : ", n, address)
	m.hex(data)
	m.printf("\n")
}

func (m *Menu) chipErase() {
	m.printf("Erasing chip...\n")
	if err := m.prg.FlashChipErase(); err != nil {
		m.printf("ERROR: %v\n", err)
		return
	}
	m.printf("Done.\n")
}

func (m *Menu) flashWrite(args []string) {
	if len(args) < 2 {
		m.printf("ERROR\n")
		return
	}
	address, err := strconv.ParseUint(args[0], 16, 32)
	if err != nil {
		m.printf("ERROR\n")
		return
	}
	data, err := strconv.ParseUint(args[1], 16, 8)
	if err != nil {
		m.printf("ERROR\n")
		return
	}

	m.printf("Program 0x%02x at address 0x%04x\n", data, address)
	if err := m.prg.FlashProgramByte(uint32(address), uint8(data)); err != nil {
		m.printf("ERROR: %v\n", err)
	}
}

func (m *Menu) blankCheck() {
	size := m.prg.Profile.ROMSize
	m.printf("Checking %d bytes...\n", size)
	if a := m.prg.BlankCheck(); a >= 0 {
		m.printf("Not blank at 0x%06x\n", a)
		return
	}
	m.printf("Blank\n")
}

func (m *Menu) setROMSize(args []string) {
	if len(args) < 1 {
		m.printf("ERROR\n")
		return
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		m.printf("ERROR\n")
		return
	}
	if err := m.prg.SetROMSize(size); err != nil {
		m.printf("ERROR: %v\n", err)
		return
	}
	m.printf("ROM size set to %d\n", size)
}

func (m *Menu) upload() {
	m.printf("READY. Please start uploading.\n")

	o, err := m.prg.XmodemUpload()
	if err != nil {
		m.printf("\nERROR: %v\n", err)
		return
	}

	switch o.Status {
	case xmodem.Complete:
		m.printf("\nEnd of transmission - done\n")
	case xmodem.Cancelled:
		m.printf("\nUpload interrupted\n")
	case xmodem.TimedOut:
		m.printf("Timeout\n")
	}
}

func (m *Menu) download() {
	size := m.prg.Profile.ROMSize
	m.printf("Dumping the rom using XMmodem. %d blocks.\n", xmodem.Blocks(size))
	m.printf("Please start the download... CTRL+C to cancel.\n")

	o, _ := m.prg.XmodemDownload(size)

	switch o.Status {
	case xmodem.Cancelled:
		m.printf("\nTransfer cancelled.\n\n")
	case xmodem.TimedOut:
		m.printf("\nTimeout\n")
	}
}
