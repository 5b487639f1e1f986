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

package cartridge_test

import (
	"testing"

	"github.com/smsprogr/smsprogr/hardware/cartio"
	"github.com/smsprogr/smsprogr/hardware/cartridge"
	"github.com/smsprogr/smsprogr/hardware/cartsim"
	"github.com/smsprogr/smsprogr/hardware/flash"
	"github.com/smsprogr/smsprogr/hardware/mapper"
	"github.com/smsprogr/smsprogr/test"
)

// rom returns a ROM image where every bank is different
func rom(size int) []uint8 {
	mem := make([]uint8, size)
	for i := range mem {
		mem[i] = uint8(i/mapper.BankSize + i)
	}
	return mem
}

func detector(t *testing.T, c *cartsim.Cartridge, kind mapper.Kind) (*cartridge.Detector, *mapper.Mapper) {
	t.Helper()
	bus := cartio.NewAddressBus(c)
	mp := mapper.NewMapper(bus)
	mp.Init(kind)
	dev := flash.NewDevice(bus)
	dev.Init()
	return cartridge.NewDetector(bus, mp, dev), mp
}

func TestScanMirrored(t *testing.T) {
	for _, size := range []int{16 * 1024, 32 * 1024, 64 * 1024, 128 * 1024, 512 * 1024} {
		c, err := cartsim.NewCartridge(cartsim.ROM, rom(size), false)
		test.DemandSuccess(t, err)
		det, mp := detector(t, c, mapper.Sega)
		test.ExpectEquality(t, det.ScanROMSize(), size, size)

		// slot 2 is restored
		bank, _ := mp.Slot(2)
		test.ExpectEquality(t, bank, uint8(2))
		test.ExpectEquality(t, c.Slot(2), uint8(2))
	}
}

func TestScanLoopBound(t *testing.T) {
	c, err := cartsim.NewCartridge(cartsim.ROM, rom(2*1024*1024), false)
	test.DemandSuccess(t, err)
	det, _ := detector(t, c, mapper.Sega)
	test.ExpectEquality(t, det.ScanROMSize(), 1024*1024)
}

func TestScanFirstBytePrefilter(t *testing.T) {
	// bank 2 starts with the same byte as bank 0 but is otherwise different
	mem := rom(64 * 1024)
	mem[0x8000] = mem[0x0000]
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)
	det, _ := detector(t, c, mapper.Sega)
	test.ExpectEquality(t, det.ScanROMSize(), 64*1024)
}

func TestScanBlankBank(t *testing.T) {
	mem := rom(128 * 1024)
	for i := 0x8000; i < 0xc000; i++ {
		mem[i] = 0xff
	}
	c, err := cartsim.NewCartridge(cartsim.ROM, mem, false)
	test.DemandSuccess(t, err)
	det, _ := detector(t, c, mapper.Sega)
	test.ExpectEquality(t, det.ScanROMSize(), 32*1024)
}

func TestScanMapperless(t *testing.T) {
	c, err := cartsim.NewCartridge(cartsim.ROM, rom(32*1024), true)
	test.DemandSuccess(t, err)
	det, _ := detector(t, c, mapper.None)
	test.ExpectEquality(t, det.ScanROMSize(), 32*1024)
	test.ExpectEquality(t, len(c.Registers), 0)
}

func TestDetect(t *testing.T) {
	c := cartsim.NewBlankFlash(cartsim.MX29F040)
	copy(c.Memory(), rom(128*1024))
	copy(c.Memory()[cartridge.HeaderAddress:], []uint8{
		'T', 'M', 'R', ' ', 'S', 'E', 'G', 'A', 0xff, 0xff, 0x34, 0x12, 0x26, 0x70, 0x22, 0x4f,
	})

	// the rest of the chip is a copy of the first 128KiB
	for i := 128 * 1024; i < len(c.Memory()); i++ {
		c.Memory()[i] = c.Memory()[i%(128*1024)]
	}

	det, mp := detector(t, c, mapper.Sega)
	pr := det.Detect()
	test.ExpectEquality(t, pr.ROMSize, 128*1024)
	test.ExpectEquality(t, pr.Flash, true)
	test.ExpectEquality(t, pr.FlashID, uint16(flash.IDMX29F040))
	test.ExpectEquality(t, pr.FlashInfo.Size, 512*1024)
	test.ExpectEquality(t, pr.Header.Valid, true)
	test.ExpectEquality(t, pr.Header.Checksum, uint16(0x1234))
	test.ExpectEquality(t, pr.Header.ProductCode, 27026)
	test.ExpectEquality(t, pr.Header.Version, uint8(2))
	test.ExpectEquality(t, pr.Header.Region, cartridge.Region(4))
	test.ExpectEquality(t, pr.Header.Size, 128*1024)

	bank, _ := mp.Slot(2)
	test.ExpectEquality(t, bank, uint8(2))
}

func TestDetectROM(t *testing.T) {
	c, err := cartsim.NewCartridge(cartsim.ROM, rom(32*1024), false)
	test.DemandSuccess(t, err)
	det, _ := detector(t, c, mapper.Sega)
	pr := det.Detect()
	test.ExpectEquality(t, pr.Flash, false)
	test.ExpectEquality(t, pr.ROMSize, 32*1024)
	test.ExpectEquality(t, pr.Header.Valid, false)
}

func TestBlankCheck(t *testing.T) {
	c := cartsim.NewBlankFlash(cartsim.MX29F040)
	det, _ := detector(t, c, mapper.Sega)
	test.ExpectEquality(t, det.BlankCheck(64*1024), -1)

	c.Memory()[0x9001] = 0x00
	test.ExpectEquality(t, det.BlankCheck(64*1024), 0x9001)
	test.ExpectEquality(t, det.BlankCheck(32*1024), -1)
}

func TestProfileDefault(t *testing.T) {
	pr := cartridge.NewProfile()
	test.ExpectEquality(t, pr.ROMSize, cartridge.DefaultROMSize)
}
