package conv

import (
	"fmt"
	"strings"
	"time"
)

// ByteCountDecimal formats byte sizes in a human readable way.
// Shamelessly stolen from http://programming.guide/go/formatting-byte-size-to-human-readable-format.html
func ByteCountDecimal(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d b", n)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cb", float64(n)/float64(div), "kMGTPE"[exp])
}

// StringOf converts any value to a string, with special treatment of slices, floats and durations.
func StringOf(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	case *float64:
		if x == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *x)
	case time.Duration:
		return x.Round(time.Millisecond).String()
	case []string:
		return strings.Join(x, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
