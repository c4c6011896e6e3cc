package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// Key joins prefix and parts with ':' into a stable cache key. Strings are
// trimmed and upper-cased so "aapl " and "AAPL" share an entry, empty parts
// become "_" and floats use their shortest exact form.
func Key(prefix string, parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(keyPart(p))
	}
	return b.String()
}

func keyPart(p interface{}) string {
	switch v := p.(type) {
	case string:
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" {
			return "_"
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
