package raster

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// lineHeight is the vertical advance between label lines, in pixels.
const lineHeight = 13

// DrawText renders text onto dst with the built-in 7x13 face. The dot
// (x, y) is the baseline start of the first line; later lines advance
// downward. Bitmap fonts keep the output byte-reproducible.
func DrawText(dst *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	for i, line := range strings.Split(text, "\n") {
		d.Dot = fixed.P(x, y+i*lineHeight)
		d.DrawString(line)
	}
}

// TextWidth returns the pixel width of a single line of label text.
func TextWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// Label draws annotation text at a CAD insertion point. DXF anchors text
// at its baseline, so the insertion point maps straight to the dot.
func (c *Canvas) Label(at dxf.Point, text string, col color.RGBA) {
	if text == "" {
		return
	}
	x, y := c.tr.Apply(at)
	DrawText(c.img, int(math.Round(x)), int(math.Round(y)), text, col)
}
