package contour

import "fmt"

// AnalysisError reports that no contours could be extracted from a
// render, no matter which binarization method was tried.
type AnalysisError struct {
	// MethodCounts records how many contours each method produced.
	MethodCounts map[Method]int
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("no contours detected by any of %d binarization methods", len(e.MethodCounts))
}
