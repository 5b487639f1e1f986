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

package hardware

import (
	"github.com/smsprogr/smsprogr/curated"
	"github.com/smsprogr/smsprogr/hardware/cartio"
	"github.com/smsprogr/smsprogr/hardware/cartridge"
	"github.com/smsprogr/smsprogr/hardware/flash"
	"github.com/smsprogr/smsprogr/hardware/mapper"
	"github.com/smsprogr/smsprogr/hardware/preferences"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/prefs"
	"github.com/smsprogr/smsprogr/xmodem"
)

// Sentinal error patterns.
const (
	InvalidROMSize = "hardware: invalid ROM size (%d)"
)

// MaxROMSize is the largest ROM that can be reached through the mapper.
const MaxROMSize = 256 * mapper.BankSize

// Programmer is the cartridge programmer.
type Programmer struct {
	Prefs *preferences.Preferences

	Bus      *cartio.AddressBus
	Mapper   *mapper.Mapper
	Flash    *flash.Device
	Detector *cartridge.Detector
	Transfer *xmodem.Engine

	// the profile of the most recently detected cartridge
	Profile cartridge.Profile

	quiet bool
}

// NewProgrammer is the preferred method of initialisation for the Programmer
// type. The preferences argument can be nil, in which case the default values
// are used.
//
// The mapper is initialised with the default mapper from the preferences and
// the flash device is initialised.
func NewProgrammer(port cartio.Port, transport xmodem.Transport, p *preferences.Preferences) (*Programmer, error) {
	prg := &Programmer{
		Prefs:   p,
		Profile: cartridge.NewProfile(),
	}

	prg.Bus = cartio.NewAddressBus(port)
	prg.Mapper = mapper.NewMapper(prg.Bus)
	prg.Flash = flash.NewDevice(prg.Bus)
	prg.Detector = cartridge.NewDetector(prg.Bus, prg.Mapper, prg.Flash)

	timing := xmodem.DefaultTiming()
	kind := mapper.Sega

	if p != nil {
		var err error
		kind, err = mapper.ParseKind(p.DefaultMapper.String())
		if err != nil {
			return nil, err
		}
		timing = p.Timing()
		prg.Flash.SetPollLimit(p.FlashPollLimit.Get().(int))
		p.FlashPollLimit.SetHookPost(func(v prefs.Value) error {
			prg.Flash.SetPollLimit(v.(int))
			return nil
		})
	}

	prg.Transfer = xmodem.NewEngine(transport, prg.Bus, prg.Mapper, prg.Flash, timing)
	if p != nil {
		prg.Transfer.UploadCRC = p.UploadCRC.Get().(bool)
		p.UploadCRC.SetHookPost(func(v prefs.Value) error {
			prg.Transfer.UploadCRC = v.(bool)
			return nil
		})
	}

	prg.Init(kind)
	prg.FlashInit()

	return prg, nil
}

// AllowLogging implements the logger.Permission interface.
func (prg *Programmer) AllowLogging() bool {
	return !prg.quiet
}

// SetQuiet suppresses log entries made by the Programmer.
func (prg *Programmer) SetQuiet(quiet bool) {
	prg.quiet = quiet
}

// Init configures the mapper hardware for the kind of mapper.
func (prg *Programmer) Init(kind mapper.Kind) {
	prg.Mapper.Init(kind)
}

// SetSlot points a mapper slot at a bank.
func (prg *Programmer) SetSlot(slot int, bank uint8) error {
	return prg.Mapper.SetSlot(slot, bank)
}

// FlashInit selects the flash algorithm by probing the chip.
func (prg *Programmer) FlashInit() flash.Chip {
	return prg.Flash.Init()
}

// FlashDetect returns true if a flash chip is present.
func (prg *Programmer) FlashDetect() bool {
	return prg.Flash.Detect()
}

// FlashReadID returns the silicon ID of the flash chip.
func (prg *Programmer) FlashReadID() uint16 {
	return prg.Flash.ReadSiliconID()
}

// FlashChipErase erases the entire flash chip.
func (prg *Programmer) FlashChipErase() error {
	logger.Log(prg, "programmer", "erasing flash")
	return prg.Flash.ChipErase()
}

// FlashProgramByte programs a single byte at a linear cartridge address. The
// byte is programmed through slot 2, which is restored to bank 2 afterwards.
func (prg *Programmer) FlashProgramByte(address uint32, data uint8) error {
	return prg.FlashProgramBytes(address, []uint8{data})
}

// FlashProgramBytes programs bytes starting at a linear cartridge address.
// The data can cross bank boundaries. Bytes are programmed through slot 2,
// which is restored to bank 2 afterwards.
func (prg *Programmer) FlashProgramBytes(address uint32, data []uint8) error {
	defer prg.Mapper.Restore()

	for len(data) > 0 {
		offset := address & (mapper.BankSize - 1)
		n := min(len(data), int(mapper.BankSize-offset))

		if err := prg.Mapper.SetSlot(2, uint8(address/mapper.BankSize)); err != nil {
			return err
		}
		if err := prg.Flash.ProgramBytes(0x8000|uint16(offset), data[:n]); err != nil {
			return err
		}

		data = data[n:]
		address += uint32(n)
	}

	return nil
}

// ReadLinear fills dst with bytes starting at a linear cartridge address.
// Addresses below 32KiB are read through slots 0 and 1. Slot 2 is used for
// everything else and restored to bank 2 afterwards.
func (prg *Programmer) ReadLinear(address uint32, dst []uint8) {
	defer prg.Mapper.Restore()

	for i := range dst {
		t := mapper.Translate(address)
		if t.Banked && (i == 0 || t.Window == 0x8000) {
			_ = prg.Mapper.SetSlot(2, t.Bank)
		}
		dst[i] = prg.Bus.Read(t.Window)
		address++
	}
}

// DetectCartridge discovers the size of the ROM and the type of flash chip.
// The result is stored as the current profile.
func (prg *Programmer) DetectCartridge() cartridge.Profile {
	prg.Profile = prg.Detector.Detect()
	logger.Logf(prg, "programmer", "detected %dKiB", prg.Profile.ROMSize/1024)
	return prg.Profile
}

// SetROMSize overrides the ROM size of the current profile. The size does not
// need to be a multiple of the bank size.
func (prg *Programmer) SetROMSize(size int) error {
	if size <= 0 || size > MaxROMSize {
		return curated.Errorf(InvalidROMSize, size)
	}
	prg.Profile.ROMSize = size
	return nil
}

// BlankCheck returns the linear address of the first byte in the ROM that is
// not 0xff, using the ROM size of the current profile. Returns -1 if the ROM
// is blank.
func (prg *Programmer) BlankCheck() int {
	return prg.Detector.BlankCheck(prg.Profile.ROMSize)
}

// XmodemUpload receives a ROM image from the host and programs it into the
// flash chip. Slot 2 is restored to bank 2 afterwards.
func (prg *Programmer) XmodemUpload() (xmodem.Outcome, error) {
	defer prg.Mapper.Restore()
	logger.Log(prg, "programmer", "upload started")
	return prg.Transfer.Upload()
}

// XmodemDownload sends romSize bytes of the cartridge to the host.
func (prg *Programmer) XmodemDownload(romSize int) (xmodem.Outcome, error) {
	logger.Logf(prg, "programmer", "download of %d bytes started", romSize)
	return prg.Transfer.Download(romSize)
}
