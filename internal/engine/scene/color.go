package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" or "#rgb" (the hash is optional) into
// RGB components in the 0-1 range.
func ParseHexColor(s string) ([3]float32, error) {
	var c [3]float32

	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return c, fmt.Errorf("invalid hex color %q", s)
			}
			c[i] = float32(v) / 255
		}
	case 3:
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return c, fmt.Errorf("invalid hex color %q", s)
			}
			c[i] = float32(v*17) / 255
		}
	default:
		return c, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}
