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

import "time"

// Timing controls how long the Engine waits for the host.
type Timing struct {
	// the time between polls of the transport
	PollInterval time.Duration

	// the number of polls before a wait for a byte fails
	ByteWait int

	// the number of failed waits before a transfer is abandoned
	Retries int

	// sleep function. time.Sleep is used if this is nil
	Sleep func(time.Duration)
}

// DefaultTiming gives each wait approximately five seconds and allows fifteen
// failed waits.
func DefaultTiming() Timing {
	return Timing{
		PollInterval: time.Millisecond,
		ByteWait:     5000,
		Retries:      15,
	}
}

func (tm Timing) sleep() {
	if tm.Sleep != nil {
		tm.Sleep(tm.PollInterval)
		return
	}
	time.Sleep(tm.PollInterval)
}
