package raster

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// Background is the default canvas color.
var Background = color.RGBA{0, 0, 0, 255}

// kindColors assigns each entity kind the pen color used in kind mode.
var kindColors = map[string]color.RGBA{
	dxf.KindLine:       {255, 255, 255, 255},
	dxf.KindCircle:     {0, 255, 255, 255},
	dxf.KindArc:        {255, 0, 255, 255},
	dxf.KindText:       {255, 255, 0, 255},
	dxf.KindMText:      {255, 255, 0, 255},
	dxf.KindLWPolyline: {0, 255, 0, 255},
	dxf.KindPolyline:   {100, 255, 100, 255},
}

// defaultPen is used for kinds without an assigned color.
var defaultPen = color.RGBA{255, 200, 0, 255}

// KindColor returns the pen color for an entity kind.
func KindColor(kind string) color.RGBA {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return defaultPen
}

// ACIColor converts an AutoCAD Color Index (1..255) to RGBA. Indices
// 1..9 are the fixed classic colors. 10..249 form 24 hue groups of ten
// shades each, approximated here on the HSV wheel. 250..255 are grays.
// Index 0 (BYBLOCK) and 256 (BYLAYER) have no color of their own and
// fall back to white, as does any out-of-range value.
func ACIColor(index int) color.RGBA {
	switch index {
	case 1:
		return color.RGBA{255, 0, 0, 255}
	case 2:
		return color.RGBA{255, 255, 0, 255}
	case 3:
		return color.RGBA{0, 255, 0, 255}
	case 4:
		return color.RGBA{0, 255, 255, 255}
	case 5:
		return color.RGBA{0, 0, 255, 255}
	case 6:
		return color.RGBA{255, 0, 255, 255}
	case 7:
		return color.RGBA{255, 255, 255, 255}
	case 8:
		return color.RGBA{128, 128, 128, 255}
	case 9:
		return color.RGBA{192, 192, 192, 255}
	}

	if index >= 10 && index <= 249 {
		group := (index - 10) / 10
		shade := (index - 10) % 10
		hue := float64(group) * 15

		// Within a group, even shades are saturated and odd shades are
		// washed out; brightness drops in five steps.
		val := 1.0 - 0.15*float64(shade/2)
		sat := 1.0
		if shade%2 == 1 {
			sat = 0.45
		}
		r, g, b := colorful.Hsv(hue, sat, val).RGB255()
		return color.RGBA{r, g, b, 255}
	}

	if index >= 250 && index <= 255 {
		v := 0.2 + 0.16*float64(index-250)
		r, g, b := colorful.Hsv(0, 0, v).RGB255()
		return color.RGBA{r, g, b, 255}
	}

	return color.RGBA{255, 255, 255, 255}
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func ParseHexColor(hex string) (color.RGBA, error) {
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{r, g, b, 255}, nil
	case 8:
		c, err := colorful.Hex("#" + hex[:6])
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{r, g, b, uint8(a)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}
}
