//go:build !ios && !android && (amd64 || arm64)

package vsgo

import "strconv"

// Rational is a frame rate expressed as Num/Den.
// VapourSynth reports 0/0 for clips with a variable frame rate.
type Rational struct {
	Num int64 `yaml:"numerator"`
	Den int64 `yaml:"denominator"`
}

// NewRational creates a new Rational with the given numerator and denominator.
func NewRational(num, den int64) Rational {
	return Rational{Num: num, Den: den}
}

// Float64 converts the rational to a float64.
// Returns 0 if the denominator is 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsZero returns true if the rational is zero.
func (r Rational) IsZero() bool {
	return r.Num == 0
}

// Reduce reduces the rational to lowest terms.
func (r Rational) Reduce() Rational {
	if r.Den == 0 {
		return r
	}
	g := gcd(abs(r.Num), abs(r.Den))
	if g == 0 {
		return r
	}
	return Rational{Num: r.Num / g, Den: r.Den / g}
}

// String formats the rational as "num/den".
func (r Rational) String() string {
	return strconv.FormatInt(r.Num, 10) + "/" + strconv.FormatInt(r.Den, 10)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// Common frame rates
var (
	FrameRate24    = NewRational(24, 1)
	FrameRate25    = NewRational(25, 1)
	FrameRate30    = NewRational(30, 1)
	FrameRate2997  = NewRational(30000, 1001) // 29.97 fps (NTSC)
	FrameRate50    = NewRational(50, 1)
	FrameRate60    = NewRational(60, 1)
	FrameRate23976 = NewRational(24000, 1001) // 23.976 fps (film)
)
