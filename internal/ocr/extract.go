package ocr

import (
	"errors"
	"image"
)

// ExtractImage performs OCR on an in-memory image and returns the
// recognized text with word-level boxes. Returns ErrUnavailable when
// the build carries no backend.
func ExtractImage(img image.Image, language string) (*ExtractResult, error) {
	return extractImage(img, language)
}

// VerifyAnnotations extracts text from a rendered drawing and matches
// it against the expected annotation strings. A build without an OCR
// backend is not an error: the result reports Available=false and all
// expected strings as missing so callers can surface the degradation.
func VerifyAnnotations(img image.Image, want []string, language string) (*VerifyResult, error) {
	res, err := extractImage(img, language)
	if errors.Is(err, ErrUnavailable) {
		v := &VerifyResult{
			Backend:  backendName,
			Expected: len(want),
			Matches:  []Match{},
			Missing:  append([]string{}, want...),
		}
		return v, nil
	}
	if err != nil {
		return nil, err
	}

	v := Verify(res, want)
	v.Available = true
	v.Backend = backendName
	return v, nil
}

// Info describes the OCR subsystem for diagnostics.
type Info struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Status reports whether an OCR backend is compiled in and usable.
func Status() Info {
	version, err := backendVersion()
	if err != nil {
		return Info{Available: false, Backend: backendName, Error: err.Error()}
	}
	return Info{Available: true, Backend: backendName, Version: version}
}
