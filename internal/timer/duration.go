package timer

import "fmt"

// Accumulator counts elapsed study time at one-second resolution. It is
// not safe for concurrent use; the timer run loop is its only writer.
type Accumulator struct {
	seconds int64
}

// Add advances the accumulator by one second.
func (a *Accumulator) Add() {
	a.seconds++
}

// Reset zeroes the accumulator.
func (a *Accumulator) Reset() {
	a.seconds = 0
}

// Seconds returns the total elapsed seconds.
func (a *Accumulator) Seconds() int64 {
	return a.seconds
}

// Clock decomposes the elapsed time into zero-padded two-digit hour,
// minute and second strings. Hours grow unbounded.
func (a *Accumulator) Clock() (hours, minutes, seconds string) {
	h := a.seconds / 3600
	m := (a.seconds % 3600) / 60
	s := a.seconds % 60
	return pad(h), pad(m), pad(s)
}

func pad(v int64) string {
	return fmt.Sprintf("%02d", v)
}
