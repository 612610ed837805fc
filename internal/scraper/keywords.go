package scraper

import (
	"strings"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// jobTypePatterns lists employment-type markers in precedence order; the
// first matching entry wins.
var jobTypePatterns = []struct {
	jobType model.JobType
	terms   []string
}{
	{model.JobTypeFullTime, []string{"Full-time", "Full time"}},
	{model.JobTypePartTime, []string{"Part-time", "Part time"}},
	{model.JobTypeContract, []string{"Contract"}},
	{model.JobTypeInternship, []string{"Internship"}},
	{model.JobTypeRemote, []string{"Remote"}},
}

// DetectJobType scans page text for employment-type keywords and returns the
// highest-precedence match, or Other when none appear.
func DetectJobType(text string) model.JobType {
	for _, p := range jobTypePatterns {
		for _, term := range p.terms {
			if strings.Contains(text, term) {
				return p.jobType
			}
		}
	}
	return model.JobTypeOther
}

// skillVocabulary is the fixed set of skill keywords matched against listing
// text. Matching is a plain case-sensitive substring check — a deliberately
// coarse signal, not NLP.
var skillVocabulary = []string{
	"JavaScript", "Python", "Java", "C++", "C#",
	"React", "Angular", "Vue", "Node.js", "Express",
	"MongoDB", "SQL", "MySQL", "PostgreSQL",
	"AWS", "Azure", "GCP", "Cloud", "DevOps",
	"Docker", "Kubernetes", "Git",
	"HTML", "CSS", "Sass", "LESS",
	"UI/UX", "Design", "Figma", "Adobe",
	"Communication", "Leadership", "Teamwork",
	"Problem-solving", "Critical thinking",
}

// ExtractSkills returns every vocabulary term appearing in any of the given
// texts, in vocabulary order, without duplicates.
func ExtractSkills(texts ...string) []string {
	var found []string
	for _, skill := range skillVocabulary {
		for _, text := range texts {
			if strings.Contains(text, skill) {
				found = append(found, skill)
				break
			}
		}
	}
	return found
}
