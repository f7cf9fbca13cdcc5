//go:build cgo && linux

package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"
)

const backendName = "gosseract"

// extractImage runs Tesseract over the image via a temporary PNG;
// gosseract only accepts file paths or raw encoded bytes.
func extractImage(img image.Image, language string) (*ExtractResult, error) {
	tmpFile, err := os.CreateTemp("", "dxf-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			return nil, fmt.Errorf("failed to set language: %w", err)
		}
	}
	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Word boxes can fail on some Tesseract configurations; the full
	// text is still useful on its own.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	words := make([]Word, 0, len(boxes))
	if err == nil {
		for _, box := range boxes {
			if box.Word == "" {
				continue
			}
			words = append(words, Word{
				Text:       box.Word,
				Confidence: float64(box.Confidence) / 100.0,
				Bounds: Bounds{
					X1: box.Box.Min.X,
					Y1: box.Box.Min.Y,
					X2: box.Box.Max.X,
					Y2: box.Box.Max.Y,
				},
			})
		}
	}

	return &ExtractResult{FullText: text, Words: words}, nil
}

// backendVersion reports the linked Tesseract version.
func backendVersion() (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version(), nil
}
