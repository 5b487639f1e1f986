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
	"os"
	"path/filepath"
)

// the name of the base path for all resources when the portable resource
// directory is used.
const portableResourcePath = ".smsprogr"

// the name of the base path inside the user's configuration directory.
const configResourcePath = "smsprogr"

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with the base resource directory.
func ResourcePath(resource ...string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	p := filepath.Join(append([]string{base}, resource...)...)

	// create all directories leading up to the resource
	dir := filepath.Dir(p)
	if len(resource) == 0 || resource[len(resource)-1] == "" {
		dir = p
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return p, nil
}

func basePath() (string, error) {
	if info, err := os.Stat(portableResourcePath); err == nil && info.IsDir() {
		return portableResourcePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cnf, configResourcePath), nil
}
