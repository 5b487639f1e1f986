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

package romimage

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/hardware"
	"github.com/smsprogr/smsprogr/hardware/mapper"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/xmodem"
)

// Sentinal error patterns.
const (
	Empty    = "romimage: %s is empty"
	TooLarge = "romimage: %s is too large (%d bytes)"
	NoROM    = "romimage: no ROM in archive %s"
	Error    = "romimage: %v"
)

// CopierHeaderSize is the size of the header added by some copier devices.
const CopierHeaderSize = 512

// extensions of files that are considered to be ROMs when found in an
// archive
var extensions = []string{".sms", ".gg", ".sg", ".bin", ".rom"}

// Load reads the ROM image at the named path.
func Load(path string) ([]uint8, error) {
	var data []uint8
	var err error

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		data, err = fromArchive(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if curated.IsAny(err) {
			return nil, err
		}
		return nil, curated.Errorf(Error, err)
	}

	return Prepare(filepath.Base(path), data)
}

// Prepare removes any copier header and pads the data to a whole number of
// XMODEM blocks. The name is used in error messages only.
func Prepare(name string, data []uint8) ([]uint8, error) {
	if len(data) == 0 {
		return nil, curated.Errorf(Empty, name)
	}

	if len(data)%mapper.BankSize == CopierHeaderSize {
		logger.Logf(logger.Allow, "romimage", "%s: removing copier header", name)
		data = data[CopierHeaderSize:]
	}

	if len(data) > hardware.MaxROMSize {
		return nil, curated.Errorf(TooLarge, name, len(data))
	}

	if r := len(data) % xmodem.BlockSize; r != 0 {
		data = append(data, bytes.Repeat([]uint8{0xff}, xmodem.BlockSize-r)...)
	}

	return data, nil
}

func fromArchive(path string) ([]uint8, error) {
	zf, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zf.Close()

	for _, f := range zf.File {
		if f.FileInfo().IsDir() || !isROM(f.Name) {
			continue
		}

		r, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer r.Close()

		logger.Logf(logger.Allow, "romimage", "using %s from %s", f.Name, filepath.Base(path))
		return io.ReadAll(r)
	}

	return nil, curated.Errorf(NoROM, filepath.Base(path))
}

func isROM(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
