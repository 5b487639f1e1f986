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

// Package paths contains functions to prepare paths to smsprogr resources.
//
// The ResourcePath() function prepends the supplied resource path with the
// base resource directory. If a directory named ".smsprogr" is present in the
// current working directory then that is the base directory. Otherwise the
// base directory is "smsprogr" in the user's configuration directory, as
// reported by os.UserConfigDir(). On a modern Linux system that would be:
//
//	/home/user/.config/smsprogr/preferences
//
// The directories leading to the resource are created as required. The
// resource itself is not touched.
package paths
