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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and are created with the
// Errorf() function, which takes a formatting pattern and placeholder values
// in the same way as fmt.Errorf().
//
// The pattern is kept alongside the values and is what makes a curated error
// identifiable. The Is() function tests whether the error was created with a
// specific pattern:
//
//	e := curated.Errorf("flash: %s did not complete", "erase")
//
//	if curated.Is(e, "flash: %s did not complete") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but looks for the pattern anywhere in the
// error chain. A chain is created by passing a curated error as one of the
// values to Errorf():
//
//	f := curated.Errorf("upload: %v", e)
//
//	curated.Has(f, "flash: %s did not complete") // true
//	curated.Is(f, "flash: %s did not complete")  // false
//
// Patterns that are tested for by callers should be stored as exported const
// strings in the package that creates the error. These act as the sentinel
// errors of the package.
//
// The IsAny() function answers whether the error was created by Errorf() at
// all. An error that is not curated is an unexpected error.
//
// The Error() implementation normalises the error message by removing
// duplicate adjacent parts. Parts are separated by the sub-string ": ". This
// means that wrapping an error in a pattern with the same prefix does not
// result in a stuttering message. For example:
//
//	e := curated.Errorf("xmodem: timeout")
//	f := curated.Errorf("xmodem: %v", e)
//
// The error message for f will be "xmodem: timeout" and not
// "xmodem: xmodem: timeout".
package curated
