package scene

import (
	"fmt"
	"math"
	"strconv"
)

// lerpHex mixes two #rgb or #rrggbb colors at ratio t in [0,1]. Anything it
// cannot parse snaps straight to the target.
func lerpHex(from, to string, t float64) string {
	fr, fg, fb, ok := parseHex(from)
	if !ok {
		return to
	}
	tr, tg, tb, ok := parseHex(to)
	if !ok {
		return to
	}
	mix := func(a, b int) int {
		return a + int(math.Round(float64(b-a)*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(fr, tr), mix(fg, tg), mix(fb, tb))
}

func parseHex(s string) (r, g, b int, ok bool) {
	switch len(s) {
	case 4:
		if s[0] != '#' {
			return 0, 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:], 16, 16)
		if err != nil {
			return 0, 0, 0, false
		}
		r = int(v>>8&0xf) * 17
		g = int(v>>4&0xf) * 17
		b = int(v&0xf) * 17
		return r, g, b, true
	case 7:
		if s[0] != '#' {
			return 0, 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
	}
	return 0, 0, 0, false
}
