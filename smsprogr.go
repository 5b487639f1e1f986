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

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/smsprogr/smsprogr/hardware"
	"github.com/smsprogr/smsprogr/hardware/cartsim"
	"github.com/smsprogr/smsprogr/hardware/mapper"
	"github.com/smsprogr/smsprogr/hardware/preferences"
	"github.com/smsprogr/smsprogr/hostlink"
	"github.com/smsprogr/smsprogr/logger"
	"github.com/smsprogr/smsprogr/menu"
	"github.com/smsprogr/smsprogr/modalflag"
	"github.com/smsprogr/smsprogr/paths"
	"github.com/smsprogr/smsprogr/prefs"
	"github.com/smsprogr/smsprogr/romimage"
	"github.com/smsprogr/smsprogr/simport"
	"github.com/smsprogr/smsprogr/statsview"
	"github.com/smsprogr/smsprogr/usbcomm"
	"github.com/smsprogr/smsprogr/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("SIM", "DUMP", "PROGRAM", "ERASE", "INFO", "VERSION")

	log := md.AddBool("log", false, "echo log to stderr")
	prf := md.AddString("prefs", "", "preferences for this session. eg. \"xmodem.retries::30; flash.pollLimit::100000\"")

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	if *log {
		logger.SetEcho(os.Stderr, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if *prf != "" {
		prefs.PushCommandLineStack(*prf)
	}

	if stats != nil && *stats {
		statsview.Launch(os.Stdout)
	}

	// ctrl-c ends the simulation and abandons host operations
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch md.Mode() {
	case "SIM":
		err = sim(ctx, md)
	case "DUMP":
		err = dump(md)
	case "PROGRAM":
		err = program(md)
	case "ERASE":
		err = erase(md)
	case "INFO":
		err = info(md)
	case "VERSION":
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, version.Number(), version.Revision())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		os.Exit(20)
	}
}

// simCartridge creates the cartridge used by the simulated programmer. A
// flash cartridge is blank unless a ROM image is given, in which case it is
// copied to the start of the chip.
func simCartridge(chip cartsim.Chip, rom []uint8, mapperless bool) (*cartsim.Cartridge, error) {
	if chip == cartsim.ROM {
		if len(rom) == 0 {
			return nil, fmt.Errorf("a ROM image is required for a ROM cartridge")
		}
		if r := len(rom) % mapper.BankSize; r != 0 {
			rom = append(rom, bytes.Repeat([]uint8{0xff}, mapper.BankSize-r)...)
		}
		return cartsim.NewCartridge(chip, rom, mapperless)
	}

	c := cartsim.NewBlankFlash(chip)
	if len(rom) > len(c.Memory()) {
		return nil, fmt.Errorf("ROM image is larger than the %s flash chip", chip)
	}
	copy(c.Memory(), rom)

	if mapperless {
		return cartsim.NewCartridge(chip, c.Memory(), true)
	}
	return c, nil
}

func sim(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	rom := md.AddString("rom", "", "ROM image to place in the cartridge")
	chip := md.AddString("flash", "29f040", "flash chip: 29f040, 29lv320, compatible, none")
	mapperless := md.AddBool("mapperless", false, "cartridge has no mapper")
	console := md.AddBool("console", false, "connect the programmer to this terminal instead of a pseudo-terminal")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ch, err := cartsim.ParseChip(strings.ToLower(*chip))
	if err != nil {
		return err
	}

	var data []uint8
	if *rom != "" {
		data, err = romimage.Load(*rom)
		if err != nil {
			return err
		}
	}

	cart, err := simCartridge(ch, data, *mapperless)
	if err != nil {
		return err
	}

	prf, err := preferences.NewPreferences()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var comm *usbcomm.Comm

	if *console {
		con := simport.NewConsole(os.Stdin, os.Stdout)
		comm = usbcomm.NewComm(con.Send)
		if err := con.Start(comm, cancel); err != nil {
			return err
		}
		defer con.Restore()
		fmt.Printf("%s programmer on the console. CTRL+] to quit.\r\n", cart)
	} else {
		pty, err := simport.OpenPTY()
		if err != nil {
			return err
		}
		defer pty.Close()
		comm = usbcomm.NewComm(pty.Send)
		go func() {
			if err := pty.Serve(comm); err != nil {
				logger.Log(logger.Allow, "sim", err)
			}
		}()
		fmt.Printf("%s programmer on %s\n", cart, pty.Name())
	}

	prg, err := hardware.NewProgrammer(cart, comm, prf)
	if err != nil {
		return err
	}

	return menu.NewMenu(prg, comm).Run(ctx)
}

// connect opens the serial port to the programmer and asks for its version.
// The port and baud rate default to the values in the preferences file.
func connect(md *modalflag.Modes) (*hostlink.Link, error) {
	prf, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	port := md.AddString("port", prf.Port.String(), "serial port of the programmer")
	baud := md.AddInt("baud", prf.Baud.Get().(int), "baud rate of the serial port")

	p, err := md.Parse()
	if err != nil {
		return nil, err
	}
	if p != modalflag.ParseContinue {
		return nil, nil
	}

	l, err := hostlink.Open(*port, *baud)
	if err != nil {
		return nil, err
	}

	v, err := l.Version()
	if err != nil {
		l.Close()
		return nil, err
	}
	fmt.Printf("programmer version %s on %s\n", v, *port)

	return l, nil
}

func dump(md *modalflag.Modes) error {
	md.NewMode()
	output := md.AddString("o", "", "output file (default is a unique name in the current directory)")

	l, err := connect(md)
	if err != nil || l == nil {
		return err
	}
	defer l.Close()

	l.Options.Progress = func(n int) {
		fmt.Printf("\r%d bytes", n)
	}

	data, err := l.Dump()
	fmt.Println()
	if err != nil {
		return err
	}

	fn := *output
	if fn == "" {
		fn = paths.UniqueFilename("dump", "", "sms")
	}
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("%d bytes written to %s\n", len(data), fn)

	return nil
}

func program(md *modalflag.Modes) error {
	md.NewMode()
	verify := md.AddBool("verify", true, "read back and compare after programming")
	noErase := md.AddBool("noerase", false, "do not erase the chip before programming")

	l, err := connect(md)
	if err != nil || l == nil {
		return err
	}
	defer l.Close()

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single ROM image is required for %s mode", md)
	}

	data, err := romimage.Load(md.GetArg(0))
	if err != nil {
		return err
	}

	if !*noErase {
		fmt.Println("erasing...")
		if _, err := l.Erase(); err != nil {
			return err
		}
	}

	if l.Supports("bc") {
		s, err := l.BlankCheck()
		if err != nil {
			return err
		}
		if !strings.Contains(s, "Blank") || strings.Contains(s, "Not blank") {
			return fmt.Errorf("cartridge is not blank")
		}
	}

	l.Options.Progress = func(n int) {
		fmt.Printf("\r%d of %d bytes", n, len(data))
	}

	err = l.Program(data, *verify)
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Printf("%d bytes programmed\n", len(data))
	return nil
}

func erase(md *modalflag.Modes) error {
	md.NewMode()

	l, err := connect(md)
	if err != nil || l == nil {
		return err
	}
	defer l.Close()

	s, err := l.Erase()
	fmt.Print(s)
	return err
}

func info(md *modalflag.Modes) error {
	md.NewMode()

	l, err := connect(md)
	if err != nil || l == nil {
		return err
	}
	defer l.Close()

	s, err := l.Init()
	fmt.Print(s)
	return err
}
