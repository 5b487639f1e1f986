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

// Package version reports the version of the programmer firmware and host
// tools.
package version

import (
	"fmt"
	"runtime/debug"
)

// The name to use when referring to the application.
const ApplicationName = "smsprogr"

// Major and Minor are the firmware command-set version. Host tools use the
// version to decide which commands are available: blankcheck was introduced
// in 1.2 and setromsize in 1.3.
const (
	Major = 1
	Minor = 3
)

// Number returns the command-set version in the "major.minor" format reported
// by the version command.
func Number() string {
	return fmt.Sprintf("%d.%d", Major, Minor)
}

// the vcs revision. if the source has been modified but has not been committed
// then the revision string is suffixed with "+dirty"
var revision string

// Revision returns the vcs revision of the build.
func Revision() string {
	return revision
}

func init() {
	var vcsRevision string
	var vcsModified bool

	info, ok := debug.ReadBuildInfo()
	if ok {
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	if vcsRevision == "" {
		revision = "no revision information"
	} else {
		revision = vcsRevision
		if vcsModified {
			revision = fmt.Sprintf("%s+dirty", revision)
		}
	}
}
