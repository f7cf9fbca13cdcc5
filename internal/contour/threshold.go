package contour

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
)

// Method names one binarization strategy.
type Method string

const (
	// MethodFixed binarizes against a fixed level: everything at or
	// below the level (darker) becomes foreground.
	MethodFixed Method = "fixed"

	// MethodAdaptive compares each pixel against a Gaussian-weighted
	// local mean, which tolerates uneven brightness.
	MethodAdaptive Method = "adaptive"

	// MethodOtsu picks the level that maximizes between-class variance
	// of the gray histogram, then binarizes like MethodFixed.
	MethodOtsu Method = "otsu"
)

// Methods lists the strategies in contest order. Ties in the method
// contest resolve toward the earlier entry.
var Methods = []Method{MethodFixed, MethodAdaptive, MethodOtsu}

// Params are the binarization knobs. The defaults reproduce the usual
// line-art pipeline: a 5x5 pre-blur, fixed level 200, and an 11x11
// adaptive window with offset 2.
type Params struct {
	// BlurRadius controls the Gaussian pre-blur. Radius 2 yields a 5x5
	// kernel.
	BlurRadius float64 `json:"blur_radius"`

	// FixedLevel is the cutoff for MethodFixed, applied to the blurred
	// gray image. Pixels at or below the level count as ink.
	FixedLevel uint8 `json:"fixed_level"`

	// AdaptiveBlock is the local window diameter for MethodAdaptive.
	AdaptiveBlock int `json:"adaptive_block"`

	// AdaptiveC is subtracted from the local mean before comparing.
	AdaptiveC int `json:"adaptive_c"`
}

// DefaultParams returns the standard knobs.
func DefaultParams() Params {
	return Params{
		BlurRadius:    2,
		FixedLevel:    200,
		AdaptiveBlock: 11,
		AdaptiveC:     2,
	}
}

func (p *Params) normalize() {
	if p.BlurRadius <= 0 {
		p.BlurRadius = 2
	}
	if p.FixedLevel == 0 {
		p.FixedLevel = 200
	}
	if p.AdaptiveBlock < 3 {
		p.AdaptiveBlock = 11
	}
	if p.AdaptiveBlock%2 == 0 {
		p.AdaptiveBlock++
	}
	if p.AdaptiveC == 0 {
		p.AdaptiveC = 2
	}
}

// Prepare converts an analysis image to the blurred gray form every
// method binarizes from.
func Prepare(img image.Image, p Params) *image.Gray {
	p.normalize()
	return toGray(blur.Gaussian(img, p.BlurRadius))
}

// Binarize applies one method to a blurred gray image. The input is
// expected to be dark ink on a light ground (a silhouette render or a
// scanned drawing); the returned mask holds ink as white (255) on
// black, which is the polarity the tracer consumes.
func Binarize(gray *image.Gray, m Method, p Params) *image.Gray {
	p.normalize()
	switch m {
	case MethodAdaptive:
		return binarizeAdaptive(gray, p.AdaptiveBlock, p.AdaptiveC)
	case MethodOtsu:
		return binarizeInverted(gray, OtsuLevel(gray))
	default:
		return binarizeInverted(gray, p.FixedLevel)
	}
}

// binarizeInverted marks pixels at or below the level as foreground.
func binarizeInverted(gray *image.Gray, level uint8) *image.Gray {
	if level == 255 {
		// Everything is at or below 255; skip the cutoff arithmetic,
		// which would overflow.
		return uniformMask(gray.Bounds(), 255)
	}
	return invertGray(segment.Threshold(gray, level+1))
}

// binarizeAdaptive compares each pixel with the Gaussian-weighted mean
// of its block-sized neighborhood minus c, keeping the darker pixels as
// foreground.
func binarizeAdaptive(gray *image.Gray, block, c int) *image.Gray {
	local := toGray(blur.Gaussian(gray, float64(block)/2))

	b := gray.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := int(gray.GrayAt(x, y).Y)
			mean := int(local.GrayAt(x, y).Y)
			if v <= mean-c {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// OtsuLevel computes the threshold that maximizes the between-class
// variance of the gray histogram.
func OtsuLevel(gray *image.Gray) uint8 {
	bins := histogram.NewRGBAHistogram(gray).R.Bins

	total := 0
	var sum float64
	for i, n := range bins {
		total += n
		sum += float64(i) * float64(n)
	}
	if total == 0 {
		return 0
	}

	var sumBack, weightBack float64
	var best float64
	level := 0
	for i, n := range bins {
		weightBack += float64(n)
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(i) * float64(n)
		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		diff := meanBack - meanFore
		variance := weightBack * weightFore * diff * diff
		if variance > best {
			best = variance
			level = i
		}
	}
	return uint8(level)
}

func invertGray(g *image.Gray) *image.Gray {
	for i, v := range g.Pix {
		g.Pix[i] = 255 - v
	}
	return g
}

func uniformMask(b image.Rectangle, v uint8) *image.Gray {
	g := image.NewGray(b)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

// toGray flattens any image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}
