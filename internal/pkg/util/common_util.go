package util

import (
	"strconv"
)

// StrToUint64 parses a decimal string, returning 0 on failure.
func StrToUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// StrSliceToUint64Slice parses a slice of decimal strings, skipping
// anything unparseable.
func StrSliceToUint64Slice(strs []string) []uint64 {
	ids := make([]uint64, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, v)
	}
	return ids
}

// PtrStr converts a string to *string.
func PtrStr(s string) *string {
	return &s
}

// PtrInt converts an int to *int.
func PtrInt(i int) *int {
	return &i
}

// PtrUint64 converts a uint64 to *uint64.
func PtrUint64(i uint64) *uint64 {
	return &i
}

// PtrInt64 converts an int64 to *int64.
func PtrInt64(i int64) *int64 {
	return &i
}

// PtrFloat32 converts a float32 to *float32.
func PtrFloat32(f float32) *float32 {
	return &f
}
