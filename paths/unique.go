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

package paths

import (
	"fmt"
	"strings"
	"time"
)

// UniqueFilename creates a filename that (assuming a functioning clock) should
// not collide with any existing file. Note that the function does not test for
// this.
//
// Used to generate filenames for ROM dumps. Format of returned string is:
//
//	prepend_name_YYYYMMDD_HHMMSS.ext
//
// If name is empty the returned string will be of the format:
//
//	prepend_YYYYMMDD_HHMMSS.ext
func UniqueFilename(prepend string, name string, ext string) string {
	return uniqueFilename(time.Now(), prepend, name, ext)
}

func uniqueFilename(n time.Time, prepend string, name string, ext string) string {
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	var fn string

	c := strings.TrimSpace(name)
	if len(c) > 0 {
		fn = fmt.Sprintf("%s_%s_%s", prepend, c, timestamp)
	} else {
		fn = fmt.Sprintf("%s_%s", prepend, timestamp)
	}

	if ext != "" {
		fn = fmt.Sprintf("%s.%s", fn, strings.TrimPrefix(ext, "."))
	}

	return fn
}
