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

package hostlink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/xmodem"
)

// Sentinal error patterns.
const (
	NoResponse   = "hostlink: no response to %q"
	Unsupported  = "hostlink: programmer version %s does not support %s"
	VerifyFailed = "hostlink: verify failed at %#06x"
	Transfer     = "hostlink: transfer: %v"
)

// the prompt printed by the programmer after every command
const prompt = "\r\n> "

// Link is a connection to the programmer.
type Link struct {
	rw     io.ReadWriter
	closer io.Closer

	// how long to wait for the reply to a command
	Timeout time.Duration

	// options for XMODEM transfers
	Options xmodem.HostOptions

	// the version reported by the programmer. version 1.0 does not have a
	// version command
	version string
}

// NewLink creates a Link on an existing connection. Reads from the connection
// should return zero bytes rather than block when nothing has been received,
// as a serial port opened by Open() does.
func NewLink(rw io.ReadWriter) *Link {
	l := &Link{
		rw:      rw,
		Timeout: 10 * time.Second,
		Options: xmodem.DefaultHostOptions(),
		version: "1.0",
	}
	if c, ok := rw.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Open the serial port and create a Link.
func Open(port string, baud int) (*Link, error) {
	opts := serial.OpenOptions{
		PortName:              port,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}

	f, err := serial.Open(opts)
	if err != nil {
		return nil, curated.Errorf("hostlink: %v", err)
	}
	logger.Logf(logger.Allow, "hostlink", "opened %s at %d baud", port, baud)

	return NewLink(f), nil
}

// Close the underlying connection if it can be closed.
func (l *Link) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Abort sends the bytes that stop any XMODEM transfer in progress.
func (l *Link) Abort() error {
	_, err := l.rw.Write([]uint8{xmodem.CAN, xmodem.ETX})
	return err
}

// drain reads and discards anything waiting on the connection
func (l *Link) drain() {
	b := make([]uint8, 256)
	for {
		n, err := l.rw.Read(b)
		if n == 0 || err != nil {
			return
		}
	}
}

// Exchange sends a command and returns the reply. The reply is complete when
// ender is seen, either at the end of the reply (atEnd is true) or anywhere in
// the reply.
func (l *Link) Exchange(command string, ender string, atEnd bool) (string, error) {
	l.drain()

	if _, err := l.rw.Write([]uint8(command + "\r\n")); err != nil {
		return "", err
	}

	// the reply is read one byte at a time so that nothing following the
	// ender is consumed
	var reply bytes.Buffer
	b := make([]uint8, 1)
	deadline := time.Now().Add(l.Timeout)

	for {
		n, err := l.rw.Read(b)
		if n > 0 {
			reply.Write(b[:n])
			s := reply.String()
			if (atEnd && strings.HasSuffix(s, ender)) || (!atEnd && strings.Contains(s, ender)) {
				return s, nil
			}
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return reply.String(), err
		}
		if time.Now().After(deadline) {
			return reply.String(), curated.Errorf(NoResponse, command)
		}
		time.Sleep(time.Millisecond)
	}
}

// Command sends a command and waits for the prompt.
func (l *Link) Command(command string) (string, error) {
	return l.Exchange(command, prompt, true)
}

// Version asks the programmer for its version. Version 1.0 programmers do not
// understand the command and are reported as version 1.0.
func (l *Link) Version() (string, error) {
	for range 2 {
		if _, err := l.Command(""); err != nil {
			return "", err
		}
	}

	s, err := l.Command("version")
	if err != nil {
		return "", err
	}

	for _, ln := range strings.Split(s, "\r\n") {
		if _, v, ok := strings.Cut(ln, "Version: "); ok {
			l.version = strings.TrimSpace(v)
		}
	}
	return l.version, nil
}

// versionNumber converts a "major.minor" version to major*100+minor.
func versionNumber(v string) int {
	major, minor, _ := strings.Cut(v, ".")
	mj, _ := strconv.Atoi(major)
	mn, _ := strconv.Atoi(minor)
	return mj*100 + mn
}

// Supports returns true if the programmer supports the command. The version
// must have been requested first.
func (l *Link) Supports(command string) bool {
	switch command {
	case "bc":
		return versionNumber(l.version) >= 102
	case "setromsize":
		return versionNumber(l.version) >= 103
	}
	return true
}

// Init asks the programmer to detect the cartridge.
func (l *Link) Init() (string, error) {
	return l.Command("init")
}

// BlankCheck asks the programmer to check that the ROM is blank.
func (l *Link) BlankCheck() (string, error) {
	if !l.Supports("bc") {
		return "", curated.Errorf(Unsupported, l.version, "blank check")
	}
	return l.Command("bc")
}

// Erase asks the programmer to erase the flash chip.
func (l *Link) Erase() (string, error) {
	return l.Command("ce")
}

// SetROMSize tells the programmer how much to dump.
func (l *Link) SetROMSize(size int) (string, error) {
	if !l.Supports("setromsize") {
		return "", curated.Errorf(Unsupported, l.version, "setromsize")
	}
	return l.Command(fmt.Sprintf("setromsize %d", size))
}

// Download the ROM using the ROM size currently known to the programmer.
func (l *Link) Download() ([]uint8, error) {
	if _, err := l.Exchange("dx", "CTRL+C to cancel.\r\n", true); err != nil {
		return nil, err
	}

	data, err := xmodem.Receive(l.rw, l.Options)
	if err != nil {
		return data, curated.Errorf(Transfer, err)
	}

	// wait for the prompt after the transfer
	_, err = l.Command("")
	return data, err
}

// Dump detects the cartridge and downloads the ROM.
func (l *Link) Dump() ([]uint8, error) {
	if err := l.Abort(); err != nil {
		return nil, err
	}
	for range 2 {
		if _, err := l.Command(""); err != nil {
			return nil, err
		}
	}
	if _, err := l.Init(); err != nil {
		return nil, err
	}
	return l.Download()
}

// Program uploads data to the programmer, which programs it into the flash
// chip. The chip should be erased first. If verify is true the cartridge is
// read back and compared.
func (l *Link) Program(data []uint8, verify bool) error {
	if _, err := l.Exchange("ux", "READY. Please start uploading.\r\n", false); err != nil {
		return err
	}

	if err := xmodem.Send(l.rw, data, l.Options); err != nil {
		return curated.Errorf(Transfer, err)
	}

	if _, err := l.Command(""); err != nil {
		return err
	}

	if !verify {
		return nil
	}

	if l.Supports("setromsize") {
		if _, err := l.SetROMSize(len(data)); err != nil {
			return err
		}
	} else if _, err := l.Init(); err != nil {
		return err
	}

	readback, err := l.Download()
	if err != nil {
		return err
	}

	for i := range data {
		if i >= len(readback) || readback[i] != data[i] {
			return curated.Errorf(VerifyFailed, i)
		}
	}

	return nil
}
