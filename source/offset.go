package source

import "strconv"

// ZeroIndexed is a zero-based index into source text. It is used for byte
// offsets and for columns.
type ZeroIndexed int

// OneIndexed is a one-based ordinal. It is used for line numbers.
//
// ZeroIndexed and OneIndexed are distinct types so that mixing them in
// arithmetic does not compile; use ToOneIndexed and ToZeroIndexed to convert.
type OneIndexed int

func (z ZeroIndexed) Value() int                 { return int(z) }
func (z ZeroIndexed) Add(n int) ZeroIndexed      { return z + ZeroIndexed(n) }
func (z ZeroIndexed) Subtract(n int) ZeroIndexed { return z - ZeroIndexed(n) }
func (z ZeroIndexed) Increment() ZeroIndexed     { return z + 1 }
func (z ZeroIndexed) Decrement() ZeroIndexed     { return z - 1 }
func (z ZeroIndexed) ToOneIndexed() OneIndexed   { return OneIndexed(z + 1) }
func (z ZeroIndexed) String() string             { return strconv.Itoa(int(z)) }

func (o OneIndexed) Value() int                 { return int(o) }
func (o OneIndexed) Add(n int) OneIndexed       { return o + OneIndexed(n) }
func (o OneIndexed) Subtract(n int) OneIndexed  { return o - OneIndexed(n) }
func (o OneIndexed) Increment() OneIndexed      { return o + 1 }
func (o OneIndexed) Decrement() OneIndexed      { return o - 1 }
func (o OneIndexed) ToZeroIndexed() ZeroIndexed { return ZeroIndexed(o - 1) }
func (o OneIndexed) String() string             { return strconv.Itoa(int(o)) }
