package util

import "fmt"

// Number is any type convertible to float64 without loss of meaning for a
// byte count.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// No, it's not 1024: these are MB, not MiB.
const sizeDivisor = 1000.0

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// BytesAsHumanReadable formats a byte count with two decimals and a metric
// unit, e.g. 2498566 -> "2.50MB". Counts of 1000 PB and above stay in PB.
func BytesAsHumanReadable[T Number](n T) string {
	size := float64(n)
	unit := 0
	scaled := size
	for scaled >= sizeDivisor && unit < len(sizeUnits)-1 {
		scaled /= sizeDivisor
		unit++
	}
	return fmt.Sprintf("%.2f%s", scaled, sizeUnits[unit])
}
