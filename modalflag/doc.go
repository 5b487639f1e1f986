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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At its simplest it can be used as a replacement for the flag package, with
// some differences:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	port := md.AddString("port", "/dev/ttyACM0", "serial port of the programmer")
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		os.Exit(0)
//	case modalflag.ParseError:
//		fmt.Println(err)
//		os.Exit(10)
//	}
//
// Modes are added with AddSubModes(). After a call to Parse() the selected
// mode is returned by Mode(). The first sub-mode in the list is the default
// mode and is selected if the first argument is not recognised as a mode:
//
//	md.AddSubModes("SIM", "DUMP", "PROGRAM")
//	p, _ := md.Parse()
//	switch md.Mode() {
//	case "SIM":
//		md.NewMode()
//		rom := md.AddString("rom", "", "rom image to preload")
//		p, _ = md.Parse()
//	}
//
// Mode comparisons are case insensitive.
package modalflag
