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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is inserted at the beginning of a preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// the separator between key and value in the preferences file.
const keySep = " :: "

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]pref

	// keys that have been set from the command line stack. these are not
	// loaded from or saved to the file
	overrides map[string]bool
}

func (dsk *Disk) String() string {
	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:      path,
		entries:   make(map[string]pref),
		overrides: make(map[string]bool),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the file. Any value for the key on
// the command line stack is applied immediately.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, keySep) {
		return fmt.Errorf("prefs: illegal key %q", key)
	}
	dsk.entries[key] = p

	if ok, v := GetCommandLinePref(key); ok {
		dsk.overrides[key] = true
		return p.Set(v)
	}

	return nil
}

// Save current preference values to disk. Entries in the file that are not
// known to this Disk instance are preserved.
func (dsk *Disk) Save() error {
	data, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		if dsk.overrides[k] {
			continue
		}
		data[k] = p.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, keySep, data[k])
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

// Load preference values from disk. A missing file is not an error.
func (dsk *Disk) Load() error {
	data, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		if dsk.overrides[k] {
			continue
		}
		if v, ok := data[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}

	return nil
}

// read the key/value pairs of the preferences file.
func (dsk *Disk) read() (map[string]string, error) {
	data := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line must be the warning boiler plate. if it isn't then the
	// file is not a preferences file
	if scanner.Scan() && scanner.Text() != WarningBoilerPlate {
		return nil, fmt.Errorf("prefs: not a valid prefs file (%s)", dsk.path)
	}

	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), keySep, 2)
		if len(kv) != 2 {
			continue
		}
		data[kv[0]] = kv[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}

	return data, nil
}
