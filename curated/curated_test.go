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

package curated_test

import (
	"errors"
	"testing"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/test"
)

const testPattern = "flash: %s did not complete"
const wrapPattern = "upload: %v"

func TestIs(t *testing.T) {
	e := curated.Errorf(testPattern, "erase")
	test.ExpectEquality(t, e.Error(), "flash: erase did not complete")
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testPattern))
	test.ExpectFailure(t, curated.Is(e, wrapPattern))

	f := curated.Errorf(wrapPattern, e)
	test.ExpectFailure(t, curated.Is(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, wrapPattern))
}

func TestUncurated(t *testing.T) {
	e := errors.New("plain error")
	test.ExpectFailure(t, curated.IsAny(e))
	test.ExpectFailure(t, curated.Is(e, "plain error"))
	test.ExpectFailure(t, curated.Has(e, "plain error"))
	test.ExpectFailure(t, curated.IsAny(nil))
}

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("xmodem: timeout")
	f := curated.Errorf("xmodem: %v", e)
	test.ExpectEquality(t, f.Error(), "xmodem: timeout")

	g := curated.Errorf("menu: %v", f)
	test.ExpectEquality(t, g.Error(), "menu: xmodem: timeout")
}

func TestUnwrap(t *testing.T) {
	e := curated.Errorf("xmodem: timeout")
	f := curated.Errorf("download: %v", e)
	test.ExpectSuccess(t, curated.Is(errors.Unwrap(f), "xmodem: timeout"))
	test.ExpectSuccess(t, errors.Unwrap(e) == nil)
}
