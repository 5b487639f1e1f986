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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/test"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()
	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeats(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "xmodem", "duplicate packet")
	log.Log(logger.Allow, "xmodem", "duplicate packet")
	log.Log(logger.Allow, "xmodem", "duplicate packet")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "xmodem: duplicate packet (repeat x3)\n")
}

func TestMaxEntries(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Logf(logger.Allow, "tag", "%d", 1)
	log.Logf(logger.Allow, "tag", "%d", 2)
	log.Logf(logger.Allow, "tag", "%d", 3)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: 2\ntag: 3\n")
}

type prohibit struct{}

func (_ prohibit) AllowLogging() bool {
	return false
}

func TestPermission(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(prohibit{}, "tag", "detail")
	log.Logf(prohibit{}, "tag", "detail %d", 1)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")
}

type stringer struct{}

func (_ stringer) String() string {
	return "stringer test"
}

func TestDetailTypes(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", errors.New("test error"))
	log.Log(logger.Allow, "tag", stringer{})
	log.Log(logger.Allow, "tag", 100)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: test error\ntag: stringer test\ntag: 100\n")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", "before echo")
	log.SetEcho(w, true)
	test.ExpectEquality(t, w.String(), "tag: before echo\n")

	log.Log(logger.Allow, "tag", "after echo")
	test.ExpectEquality(t, w.String(), "tag: before echo\ntag: after echo\n")

	log.SetEcho(nil, false)
	log.Log(logger.Allow, "tag", "no echo")
	test.ExpectEquality(t, w.String(), "tag: before echo\ntag: after echo\n")
}
