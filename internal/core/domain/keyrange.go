package domain

import (
	"cmp"
	"fmt"
	"strings"
)

// KeyRange selects index keys for an index lookup.
// A nil bound is unbounded on that side.
type KeyRange struct {
	Lower     any
	Upper     any
	LowerOpen bool
	UpperOpen bool
}

// Only selects exactly one key.
func Only(key any) KeyRange {
	return KeyRange{Lower: key, Upper: key}
}

// AtMost selects keys less than or equal to key.
func AtMost(key any) KeyRange {
	return KeyRange{Upper: key}
}

// AtLeast selects keys greater than or equal to key.
func AtLeast(key any) KeyRange {
	return KeyRange{Lower: key}
}

// Between selects keys in [lower, upper].
func Between(lower, upper any) KeyRange {
	return KeyRange{Lower: lower, Upper: upper}
}

// IsExact returns true if the range selects a single key.
func (r KeyRange) IsExact() bool {
	return r.Lower != nil && r.Upper != nil && !r.LowerOpen && !r.UpperOpen &&
		CompareKeys(r.Lower, r.Upper) == 0
}

// Contains reports whether key falls inside the range.
func (r KeyRange) Contains(key any) bool {
	if r.Lower != nil {
		c := CompareKeys(key, r.Lower)
		if c < 0 || (c == 0 && r.LowerOpen) {
			return false
		}
	}
	if r.Upper != nil {
		c := CompareKeys(key, r.Upper)
		if c > 0 || (c == 0 && r.UpperOpen) {
			return false
		}
	}
	return true
}

// CompareKeys orders index keys. Numbers sort before strings, numbers
// compare numerically and strings by code point.
func CompareKeys(a, b any) int {
	an, aNum := numericKey(a)
	bn, bNum := numericKey(b)
	switch {
	case aNum && bNum:
		return cmp.Compare(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(stringKey(a), stringKey(b))
	}
}

func numericKey(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case Timestamp:
		return int64(n), true
	default:
		return 0, false
	}
}

func stringKey(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case WordType:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
