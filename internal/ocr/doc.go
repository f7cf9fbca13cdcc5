// Package ocr verifies drawing annotations by running optical character
// recognition over rendered images and matching the recovered words
// against the text entities the drawing declares.
//
// The Tesseract backend (via gosseract) is only compiled on Linux with
// CGO enabled. On other platforms, or in pure-Go builds, extraction
// reports ErrUnavailable and verification degrades to an "unavailable"
// result instead of failing the whole tool call. The matching logic
// itself (Verify) is pure Go and works everywhere.
package ocr
