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

// Package prefs facilitates the storage of preferential values in the
// filesystem. Values are of one of the types defined in the package (Bool,
// Int, String, Duration) and are associated with a key by adding them to a
// Disk instance:
//
//	var retries prefs.Int
//
//	dsk, err := prefs.NewDisk(pth)
//	err = dsk.Add("xmodem.retries", &retries)
//	err = dsk.Load()
//
// The file format is plain text, one "key :: value" pair per line, below a
// short warning header. Keys in the file that are not known to a Disk are
// preserved when that Disk is saved, so more than one Disk can share a file.
//
// Values can be overridden for the duration of a single program run with the
// command line stack. See PushCommandLineStack().
package prefs
