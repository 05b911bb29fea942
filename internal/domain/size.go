package domain

import (
	"errors"
	"fmt"
	"math/bits"
)

// SizeUnit is a binary size unit
type SizeUnit int

const (
	Byte SizeUnit = iota
	KibiByte
	MebiByte
	GibiByte
	TebiByte
	PebiByte
)

var sizeUnitNames = [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// ShortName returns the unit suffix, e.g. "KiB"
func (u SizeUnit) ShortName() string { return sizeUnitNames[u] }

// Min returns the smallest byte count displayed in this unit
func (u SizeUnit) Min() uint64 {
	if u == Byte {
		return 0
	}
	return 1 << (10 * uint(u))
}

// Max returns the largest byte count displayed in this unit
func (u SizeUnit) Max() uint64 { return 1<<(10*uint(u+1)) - 1 }

// Size errors
var (
	ErrNegativeSize = errors.New("size cannot be negative")
	ErrSizeTooLarge = errors.New("size must be within max value of pebi byte")
)

// Size is a byte count
type Size uint64

// SizeFromInt64 converts a signed byte count, rejecting negatives
func SizeFromInt64(n int64) (Size, error) {
	if n < 0 {
		return 0, ErrNegativeSize
	}
	return Size(n), nil
}

// HumanReadableSize is a size floored to its largest fitting unit
type HumanReadableSize struct {
	Size uint64
	Unit SizeUnit
}

func (h HumanReadableSize) String() string {
	return fmt.Sprintf("%d%s", h.Size, h.Unit.ShortName())
}

// HumanReadable picks the largest unit not exceeding the size
func (s Size) HumanReadable() (HumanReadableSize, error) {
	n := uint64(s)
	if n > PebiByte.Max() {
		return HumanReadableSize{}, ErrSizeTooLarge
	}
	unit := Byte
	if n > 0 {
		unit = SizeUnit((bits.Len64(n) - 1) / 10)
	}
	return HumanReadableSize{Size: n >> (10 * uint(unit)), Unit: unit}, nil
}
