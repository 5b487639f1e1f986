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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failure with t.Errorf() and allow the test
// to continue. The Demand*() functions report with t.Fatalf() and should be
// used when subsequent tests depend on the result being correct. For example,
// testing that the lengths of two slices are equal before iterating over them
// in unison.
//
// The success and failure functions interpret a value according to its type:
//
//	bool  -> true is success
//	error -> nil is success
//	nil   -> success
//
// Treating nil as success is not always what we want but it follows from how
// the error type is used in Go.
package test
