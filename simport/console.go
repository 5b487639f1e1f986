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
	"io"
	"os"
	"time"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/usbcomm"
	"golang.org/x/term"
)

// Sentinal error patterns.
const (
	ConsoleError = "simport: console: %v"
)

// QuitKey ends a console session. CTRL+C is passed to the programmer.
const QuitKey = 0x1d

// Console connects the programmer to a terminal.
type Console struct {
	in    *os.File
	out   io.Writer
	state *term.State
}

// NewConsole is the preferred method of initialisation for the Console type.
func NewConsole(in *os.File, out io.Writer) *Console {
	return &Console{
		in:  in,
		out: out,
	}
}

// Send implements the usbcomm.SendFunc type.
func (con *Console) Send(data []uint8) error {
	_, err := con.out.Write(data)
	return err
}

// Start the console. If the input is a terminal it is put into raw mode.
// Received bytes are copied to comm until the QuitKey is pressed or the input
// ends, at which point quit is called.
func (con *Console) Start(comm *usbcomm.Comm, quit func()) error {
	fd := int(con.in.Fd())
	if term.IsTerminal(fd) {
		st, err := term.MakeRaw(fd)
		if err != nil {
			return curated.Errorf(ConsoleError, err)
		}
		con.state = st
	}

	go func() {
		defer quit()

		b := make([]uint8, 1)
		for {
			n, err := con.in.Read(b)
			if n > 0 {
				if b[0] == QuitKey {
					return
				}
				for !comm.AddByte(b[0]) {
					time.Sleep(time.Millisecond)
				}
			}
			if err != nil {
				if err != io.EOF {
					logger.Logf(logger.Allow, "simport", "console: %v", err)
				}
				return
			}
		}
	}()

	return nil
}

// Restore the terminal to the state it was in before Start() was called.
func (con *Console) Restore() error {
	if con.state == nil {
		return nil
	}
	err := term.Restore(int(con.in.Fd()), con.state)
	con.state = nil
	if err != nil {
		return curated.Errorf(ConsoleError, err)
	}
	return nil
}
