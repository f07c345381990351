// Package export renders recordings onto off-screen surfaces: PNG images via
// gg and PDF documents via gofpdf.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ErrColor is returned for stroke colours that cannot be interpreted.
var ErrColor = errors.New("unknown colour")

// ParseColor interprets a stroke colour the way a browser canvas would for
// the common forms: #rgb, #rgba, #rrggbb, #rrggbbaa and CSS colour names.
func ParseColor(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		switch len(hex) {
		case 3, 4, 6, 8:
		default:
			return nil, fmt.Errorf("%w: %q", ErrColor, s)
		}
		for _, r := range hex {
			if !strings.ContainsRune("0123456789abcdef", r) {
				return nil, fmt.Errorf("%w: %q", ErrColor, s)
			}
		}
		return gg.Hex(hex).Color(), nil
	}
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrColor, s)
}
