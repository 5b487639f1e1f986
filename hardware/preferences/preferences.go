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

// Package preferences collates the preference values used by the programmer
// and the host tools. Values are stored in the preferences file found with
// the paths package.
package preferences

import (
	"time"

	"github.com/smsprogr/smsprogr/paths"
	"github.com/smsprogr/smsprogr/prefs"
	"github.com/smsprogr/smsprogr/xmodem"
)

// Preferences defines and collates all the preference values used by the
// programmer.
type Preferences struct {
	dsk *prefs.Disk

	// time between polls of the transport while waiting for the host
	PollInterval prefs.Duration

	// number of polls before a wait for a byte fails
	ByteWait prefs.Int

	// number of failed waits before a transfer is abandoned
	Retries prefs.Int

	// request CRC mode when receiving a ROM image
	UploadCRC prefs.Bool

	// maximum number of status reads while waiting for a flash operation to
	// complete. zero is unbounded
	FlashPollLimit prefs.Int

	// mapper type used at startup. "SEGA" or "NONE"
	DefaultMapper prefs.String

	// serial port settings used by the host tools
	Port prefs.String
	Baud prefs.Int
}

// value is satisfied by every prefs type
type value interface {
	String() string
	Set(prefs.Value) error
	Get() prefs.Value
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for _, v := range []struct {
		key  string
		pref value
	}{
		{"xmodem.pollInterval", &p.PollInterval},
		{"xmodem.byteWait", &p.ByteWait},
		{"xmodem.retries", &p.Retries},
		{"xmodem.uploadCRC", &p.UploadCRC},
		{"flash.pollLimit", &p.FlashPollLimit},
		{"mapper.default", &p.DefaultMapper},
		{"hostlink.port", &p.Port},
		{"hostlink.baud", &p.Baud},
	} {
		err = p.dsk.Add(v.key, v.pref)
		if err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to the default values.
func (p *Preferences) SetDefaults() {
	t := xmodem.DefaultTiming()
	_ = p.PollInterval.Set(t.PollInterval)
	_ = p.ByteWait.Set(t.ByteWait)
	_ = p.Retries.Set(t.Retries)
	_ = p.UploadCRC.Set(false)
	_ = p.FlashPollLimit.Set(0)
	_ = p.DefaultMapper.Set("SEGA")
	_ = p.Port.Set("/dev/ttyACM0")
	_ = p.Baud.Set(115200)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Timing returns the XMODEM timing described by the preferences.
func (p *Preferences) Timing() xmodem.Timing {
	return xmodem.Timing{
		PollInterval: p.PollInterval.Get().(time.Duration),
		ByteWait:     p.ByteWait.Get().(int),
		Retries:      p.Retries.Get().(int),
	}
}
