//go:build !cgo || !linux

package ocr

import "image"

const backendName = "none"

func extractImage(img image.Image, language string) (*ExtractResult, error) {
	return nil, ErrUnavailable
}

func backendVersion() (string, error) {
	return "", ErrUnavailable
}
