package contour

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Morphology cleanup modes applied to the binary mask before tracing.
const (
	MorphNone  = ""
	MorphClose = "close" // dilate then erode: seals pinholes in the ink
	MorphOpen  = "open"  // erode then dilate: drops speckle noise
)

// Options selects the binarization knobs and optional mask cleanup.
type Options struct {
	Params

	// Morphology is MorphNone, MorphClose or MorphOpen.
	Morphology string `json:"morphology,omitempty"`
}

// MethodCount reports how many contours one method produced.
type MethodCount struct {
	Method   Method `json:"method"`
	Contours int    `json:"contours"`

	// Outer is the number of root contours, which is what the contest
	// scores on.
	Outer int `json:"outer"`
}

// Result is the outcome of the binarization contest: the forest from
// the winning method, the mask it was traced from, and the per-method
// scores.
type Result struct {
	// Method is the winner of the contest.
	Method Method `json:"method"`

	// Counts lists every method's contour count in contest order.
	Counts []MethodCount `json:"counts"`

	Forest *Forest `json:"forest"`

	// Mask is the winning binary image (ink = 255).
	Mask *image.Gray `json:"-"`
}

// Analyze runs every binarization method over the image, traces each
// mask, and keeps the method that recovered the most shapes. Methods
// are scored by the number of root contours they find: a method whose
// cutoff misses the ink entirely scores zero, while one that recovers
// every part of the drawing scores highest. Scoring on roots rather
// than total contours matters because the adaptive method hollows
// large filled shapes into thin shells, which would otherwise let it
// win every contest with phantom holes.
//
// It returns *AnalysisError when no method finds any contour.
func Analyze(img image.Image, opts Options) (*Result, error) {
	gray := Prepare(img, opts.Params)

	var (
		best     *Forest
		bestMask *image.Gray
		winner   Method
	)
	counts := make([]MethodCount, 0, len(Methods))
	for _, m := range Methods {
		mask := Binarize(gray, m, opts.Params)
		if opts.Morphology != MorphNone {
			mask = applyMorphology(mask, opts.Morphology)
		}
		forest := Trace(mask)
		counts = append(counts, MethodCount{
			Method:   m,
			Contours: len(forest.Nodes),
			Outer:    len(forest.Roots),
		})

		// Strict comparison keeps the earlier method on ties.
		if best == nil || len(forest.Roots) > len(best.Roots) {
			best, bestMask, winner = forest, mask, m
		}
	}

	if best == nil || len(best.Nodes) == 0 {
		mc := make(map[Method]int, len(counts))
		for _, c := range counts {
			mc[c.Method] = c.Contours
		}
		return nil, &AnalysisError{MethodCounts: mc}
	}

	return &Result{
		Method: winner,
		Counts: counts,
		Forest: best,
		Mask:   bestMask,
	}, nil
}

func applyMorphology(mask *image.Gray, op string) *image.Gray {
	switch op {
	case MorphClose:
		return rebinarize(effect.Erode(effect.Dilate(mask, 1), 1))
	case MorphOpen:
		return rebinarize(effect.Dilate(effect.Erode(mask, 1), 1))
	default:
		return mask
	}
}

// rebinarize snaps a filtered mask back to strict 0/255.
func rebinarize(img image.Image) *image.Gray {
	return segment.Threshold(img, 128)
}
