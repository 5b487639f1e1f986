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

package preferences

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smsprogr/smsprogr/prefs"
	"github.com/smsprogr/smsprogr/test"
)

func TestDefaults(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
	p, err := newPreferences(pth)
	test.DemandSuccess(t, err)

	tm := p.Timing()
	test.ExpectEquality(t, tm.PollInterval, time.Millisecond)
	test.ExpectEquality(t, tm.ByteWait, 5000)
	test.ExpectEquality(t, tm.Retries, 15)
	test.ExpectEquality(t, p.FlashPollLimit.Get().(int), 0)
	test.ExpectEquality(t, p.DefaultMapper.String(), "SEGA")
	test.ExpectEquality(t, p.Baud.Get().(int), 115200)
}

func TestSaveAndLoad(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)
	p, err := newPreferences(pth)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, p.Retries.Set(3))
	test.DemandSuccess(t, p.PollInterval.Set("10ms"))
	test.DemandSuccess(t, p.Save())

	d, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.Contains(string(d), "xmodem.retries :: 3"), true)

	q, err := newPreferences(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Timing().Retries, 3)
	test.ExpectEquality(t, q.Timing().PollInterval, 10*time.Millisecond)
}
