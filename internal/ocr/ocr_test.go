package ocr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"R5.0", "R50"},
		{"Ø 12.5", "125"},
		{"part-a", "PARTA"},
		{"  HOLE 1  ", "HOLE1"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := normalizeText(tc.in); got != tc.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestVerify_WordMatch(t *testing.T) {
	res := &ExtractResult{
		FullText: "HOLE1 R5.0",
		Words: []Word{
			{Text: "HOLE1", Confidence: 0.93},
			{Text: "R5.0", Confidence: 0.81},
		},
	}

	v := Verify(res, []string{"hole1", "R5.0"})

	if v.Expected != 2 || v.Recovered != 2 {
		t.Fatalf("expected 2/2 recovered, got %d/%d", v.Recovered, v.Expected)
	}
	if len(v.Missing) != 0 {
		t.Errorf("unexpected missing: %v", v.Missing)
	}
	want := []Match{
		{Want: "hole1", Got: "HOLE1", Confidence: 0.93},
		{Want: "R5.0", Got: "R5.0", Confidence: 0.81},
	}
	if diff := cmp.Diff(want, v.Matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify_FullTextFallback(t *testing.T) {
	// Tesseract split the annotation across words; the concatenated
	// full text still contains it.
	res := &ExtractResult{
		FullText: "PART A36",
		Words: []Word{
			{Text: "PART", Confidence: 0.9},
			{Text: "A36", Confidence: 0.7},
		},
	}

	v := Verify(res, []string{"PART-A36"})

	if v.Recovered != 1 {
		t.Fatalf("expected full-text fallback match, got missing %v", v.Missing)
	}
	if v.Matches[0].Confidence != 0 {
		t.Errorf("fallback match should carry no word confidence, got %v", v.Matches[0].Confidence)
	}
}

func TestVerify_ReportsMissing(t *testing.T) {
	res := &ExtractResult{FullText: "HOLE1", Words: []Word{{Text: "HOLE1", Confidence: 0.9}}}

	v := Verify(res, []string{"HOLE1", "HOLE2"})

	if v.Recovered != 1 {
		t.Fatalf("recovered = %d, want 1", v.Recovered)
	}
	if diff := cmp.Diff([]string{"HOLE2"}, v.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify_SkipsEmptyAnnotations(t *testing.T) {
	res := &ExtractResult{FullText: ""}

	v := Verify(res, []string{"---", ""})

	if v.Expected != 0 {
		t.Errorf("punctuation-only annotations should not count as expected, got %d", v.Expected)
	}
	if len(v.Missing) != 0 {
		t.Errorf("unexpected missing: %v", v.Missing)
	}
}
