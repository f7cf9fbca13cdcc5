package ocr

import (
	"errors"
	"strings"
)

// ErrUnavailable is returned by extraction when no OCR backend was
// compiled into the binary (non-Linux or CGO disabled).
var ErrUnavailable = errors.New("ocr backend not available in this build")

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is a single recognized word with its location and confidence.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Bounds     Bounds  `json:"bounds"`
}

// ExtractResult contains the complete results of text extraction from an image.
type ExtractResult struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Words contains individual words with bounding boxes and confidence.
	// May be empty if box extraction fails; FullText is still populated.
	Words []Word `json:"words"`
}

// Match pairs an expected annotation string with the recognized text
// that satisfied it.
type Match struct {
	Want       string  `json:"want"`
	Got        string  `json:"got"`
	Confidence float64 `json:"confidence"`
}

// VerifyResult reports which expected annotation strings were recovered
// from a rendered drawing.
type VerifyResult struct {
	// Available is false when no OCR backend was compiled in. Expected
	// strings are then all reported as missing and Matches is empty.
	Available bool   `json:"available"`
	Backend   string `json:"backend"`

	Expected  int      `json:"expected"`
	Recovered int      `json:"recovered"`
	Matches   []Match  `json:"matches"`
	Missing   []string `json:"missing"`
}

// normalizeText uppercases and strips everything but letters and digits
// so that OCR noise in punctuation and spacing does not fail a match.
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Verify matches the expected annotation strings against an extraction
// result. Matching is case-insensitive and ignores punctuation: an
// expected string counts as recovered when a single recognized word
// normalizes to it, or when the normalized full text contains it.
func Verify(res *ExtractResult, want []string) *VerifyResult {
	v := &VerifyResult{
		Expected: len(want),
		Matches:  []Match{},
		Missing:  []string{},
	}
	fullNorm := normalizeText(res.FullText)

	for _, w := range want {
		wantNorm := normalizeText(w)
		if wantNorm == "" {
			// Annotation with no alphanumeric content; nothing to check.
			v.Expected--
			continue
		}

		matched := false
		for _, word := range res.Words {
			if normalizeText(word.Text) == wantNorm {
				v.Matches = append(v.Matches, Match{
					Want:       w,
					Got:        word.Text,
					Confidence: word.Confidence,
				})
				matched = true
				break
			}
		}
		if !matched && strings.Contains(fullNorm, wantNorm) {
			v.Matches = append(v.Matches, Match{Want: w, Got: w})
			matched = true
		}
		if !matched {
			v.Missing = append(v.Missing, w)
		}
	}

	v.Recovered = len(v.Matches)
	return v
}
