package scraper

import (
	"reflect"
	"testing"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// ── DetectJobType ──────────────────────────────────────────────────────────

func TestDetectJobType(t *testing.T) {
	cases := []struct {
		name string
		text string
		want model.JobType
	}{
		{"full-time hyphenated", "This is a Full-time role", model.JobTypeFullTime},
		{"full time spaced", "Full time position available", model.JobTypeFullTime},
		{"part-time", "Part-time shifts on weekends", model.JobTypePartTime},
		{"contract", "6 month Contract engagement", model.JobTypeContract},
		{"internship", "Summer Internship program", model.JobTypeInternship},
		{"remote", "Remote within the US", model.JobTypeRemote},
		{"no match", "Join our team today", model.JobTypeOther},
		{"empty", "", model.JobTypeOther},
	}
	for _, c := range cases {
		if got := DetectJobType(c.text); got != c.want {
			t.Errorf("%s: DetectJobType(%q) = %q, want %q", c.name, c.text, got, c.want)
		}
	}
}

func TestDetectJobType_PrecedenceOrder(t *testing.T) {
	// Full-time outranks everything else even when other markers appear.
	text := "Remote Contract or Full-time Internship"
	if got := DetectJobType(text); got != model.JobTypeFullTime {
		t.Errorf("DetectJobType(%q) = %q, want Full-time (highest precedence)", text, got)
	}

	text = "Remote Internship with Contract option"
	if got := DetectJobType(text); got != model.JobTypeContract {
		t.Errorf("DetectJobType(%q) = %q, want Contract (outranks Internship and Remote)", text, got)
	}
}

// ── ExtractSkills ──────────────────────────────────────────────────────────

func TestExtractSkills_VocabularyOrderNoDuplicates(t *testing.T) {
	desc := "We use Python and React. Python experience required."
	page := "Also Docker and React on the platform team."

	got := ExtractSkills(desc, page)
	want := []string{"Python", "React", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractSkills = %v, want %v", got, want)
	}
}

func TestExtractSkills_CaseSensitive(t *testing.T) {
	// The scan is a deliberate case-sensitive substring check.
	if got := ExtractSkills("we love python and javascript"); len(got) != 0 {
		t.Errorf("ExtractSkills on lower-cased text = %v, want none", got)
	}
}

func TestExtractSkills_NoMatches(t *testing.T) {
	if got := ExtractSkills("Nothing relevant here"); len(got) != 0 {
		t.Errorf("ExtractSkills = %v, want none", got)
	}
}
