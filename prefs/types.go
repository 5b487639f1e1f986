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
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Value represents the actual Go preference value.
type Value interface{}

// types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
}

// hooks are called either side of a successful conversion of the new value.
// even if the value hasn't changed the hooks are called.
type hooks struct {
	pre  func(value Value) error
	post func(value Value) error
}

func (h *hooks) store(nv Value, store func()) error {
	if h.pre != nil {
		if err := h.pre(nv); err != nil {
			return err
		}
	}
	store()
	if h.post != nil {
		if err := h.post(nv); err != nil {
			return err
		}
	}
	return nil
}

// SetHookPre sets the callback function to be called just before the prefs
// value is updated.
func (h *hooks) SetHookPre(f func(value Value) error) {
	h.pre = f
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated.
func (h *hooks) SetHookPost(f func(value Value) error) {
	h.post = f
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	hooks
	value atomic.Bool
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Int implements an integer type in the prefs system.
type Int struct {
	hooks
	value atomic.Int64
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.value.Load())
}

// Set new value to Int type. New value can be an int or a string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int:
		nv = v
	case int64:
		nv = int(v)
	case uint:
		nv = int(v)
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %T to prefs.Int: %w", v, err)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}
	return p.store(nv, func() { p.value.Store(int64(nv)) })
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// String implements a string type in the prefs system.
type String struct {
	hooks
	value atomic.Value // string
}

func (p *String) String() string {
	ov := p.value.Load()
	if ov == nil {
		return ""
	}
	return ov.(string)
}

// Set new value to String type. Any value is converted with the %v verb.
func (p *String) Set(v Value) error {
	nv := fmt.Sprintf("%v", v)
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Duration implements a time.Duration type in the prefs system.
type Duration struct {
	hooks
	value atomic.Int64
}

func (p *Duration) String() string {
	return time.Duration(p.value.Load()).String()
}

// Set new value to Duration type. New value can be a time.Duration or a
// string in the format accepted by time.ParseDuration().
func (p *Duration) Set(v Value) error {
	var nv time.Duration
	switch v := v.(type) {
	case time.Duration:
		nv = v
	case string:
		var err error
		nv, err = time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %T to prefs.Duration: %w", v, err)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Duration", v)
	}
	return p.store(nv, func() { p.value.Store(int64(nv)) })
}

// Get returns the raw pref value.
func (p *Duration) Get() Value {
	return time.Duration(p.value.Load())
}
