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

package simport

import (
	"errors"
	"os"
	"syscall"

	"github.com/pkg/term"
	"github.com/pkg/term/termios"
	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/usbcomm"
)

// Sentinal error patterns.
const (
	PTYError = "simport: pty: %v"
)

// PTY is a pseudo-terminal pair. The programmer uses the master side and the
// host opens the slave side by name.
type PTY struct {
	master *os.File

	// the slave is held open so that reading the master does not fail when
	// no host is connected
	slave *term.Term
	name  string
}

// OpenPTY is the preferred method of initialisation for the PTY type.
func OpenPTY() (*PTY, error) {
	ptm, pts, err := termios.Pty()
	if err != nil {
		return nil, curated.Errorf(PTYError, err)
	}
	name := pts.Name()

	// a non-blocking master is handled by the runtime poller, which means
	// Close() interrupts a Read() in progress
	master, err := nonBlocking(ptm)
	if err != nil {
		_ = pts.Close()
		return nil, curated.Errorf(PTYError, err)
	}

	// reopening the slave gives us a terminal we can put into raw mode
	slave, err := term.Open(name, term.RawMode)
	_ = pts.Close()
	if err != nil {
		_ = master.Close()
		return nil, curated.Errorf(PTYError, err)
	}

	logger.Logf(logger.Allow, "simport", "serial port at %s", name)

	return &PTY{
		master: master,
		slave:  slave,
		name:   name,
	}, nil
}

func nonBlocking(f *os.File) (*os.File, error) {
	defer f.Close()
	fd, err := syscall.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = syscall.Close(fd)
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

// Name returns the path of the slave side of the pseudo-terminal.
func (p *PTY) Name() string {
	return p.name
}

// Send implements the usbcomm.SendFunc type.
func (p *PTY) Send(data []uint8) error {
	_, err := p.master.Write(data)
	return err
}

// Serve copies bytes from the host into the receive buffer of comm. It returns
// when the PTY is closed.
func (p *PTY) Serve(comm *usbcomm.Comm) error {
	err := comm.Feed(p.master)
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	if err != nil {
		return curated.Errorf(PTYError, err)
	}
	return nil
}

// Close both sides of the pseudo-terminal.
func (p *PTY) Close() error {
	merr := p.master.Close()
	if err := p.slave.Close(); err != nil {
		return curated.Errorf(PTYError, err)
	}
	if merr != nil {
		return curated.Errorf(PTYError, merr)
	}
	return nil
}
