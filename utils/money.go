package utils

import (
	"strconv"
	"strings"
)

// FormatBRL formats an integer amount in centavos as a string like
// "R$ 1.234,56". Uses dot as thousands separator and comma for
// centavos (Brazilian convention).
func FormatBRL(centavos int64) string {
	neg := centavos < 0
	if neg {
		centavos = -centavos
	}

	whole := centavos / 100
	cents := centavos % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	// Pre-allocate: digits + separators + prefix + decimals
	b.Grow(len(s) + len(s)/3 + 8)
	if neg {
		b.WriteString("-R$ ")
	} else {
		b.WriteString("R$ ")
	}

	if len(s) <= 3 {
		b.WriteString(s)
	} else {
		// Insert separators from the left.
		rem := len(s) % 3
		if rem == 0 {
			rem = 3
		}
		b.WriteString(s[:rem])
		for i := rem; i < len(s); i += 3 {
			b.WriteByte('.')
			b.WriteString(s[i : i+3])
		}
	}

	b.WriteByte(',')
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(cents, 10))

	return b.String()
}
