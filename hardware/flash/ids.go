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

package flash

import "fmt"

// Info describes a flash chip identified by its silicon ID.
type Info struct {
	ID        uint16
	Name      string
	Size      int
	Supported bool
}

func (nf Info) String() string {
	if !nf.Supported {
		return fmt.Sprintf("%s (unsupported)", nf.Name)
	}
	return fmt.Sprintf("%s (supported)", nf.Name)
}

// silicon IDs returned by the MX29LV320 probe
const (
	IDMX29F040   = 0xa4c2
	IDMX29LV320  = 0xa7c2
	IDCompatible = 0x5001
)

var ids = []Info{
	{ID: IDMX29F040, Name: "MX29F040", Size: 512 * 1024, Supported: true},
	{ID: IDMX29LV320, Name: "MX29LV320", Size: 4 * 1024 * 1024, Supported: true},
	{ID: IDCompatible, Name: "29LV320 compatible", Size: 4 * 1024 * 1024, Supported: true},
}

// Lookup returns the Info for a silicon ID. Unknown IDs return an Info with
// Supported set to false and a Size of zero.
func Lookup(id uint16) Info {
	for _, nf := range ids {
		if nf.ID == id {
			return nf
		}
	}
	return Info{
		ID:   id,
		Name: fmt.Sprintf("unknown %#04x", id),
	}
}
