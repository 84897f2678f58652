package analysis

import (
	"math/rand"
	"strings"
)

// relevantKeywords bump the score of documents that look project related even
// when the project name does not match.
var relevantKeywords = []string{
	"specification",
	"requirement",
	"design",
	"scope",
	"objective",
	"deliverable",
	"milestone",
	"budget",
	"timeline",
}

const maxRelevanceScore = 100

// Scorer computes document relevance. A small random component breaks ties
// between otherwise identical documents; tests inject a fixed source.
type Scorer struct {
	randFloat func() float64
}

func NewScorer() *Scorer {
	return &Scorer{randFloat: rand.Float64}
}

func NewScorerWithRand(randFloat func() float64) *Scorer {
	return &Scorer{randFloat: randFloat}
}

// Score rates how relevant a document is to the project, in [0, 100].
// Project-name words found in the file name weigh more than ones found in the
// content, and the same holds for the fixed keyword set.
func (s *Scorer) Score(projectName, fileName, content string) float64 {
	var score float64
	projectWords := strings.Fields(strings.ToLower(projectName))
	fileNameLower := strings.ToLower(fileName)
	contentLower := strings.ToLower(content)

	for _, word := range projectWords {
		if strings.Contains(fileNameLower, word) {
			score += 10
		}
		if strings.Contains(contentLower, word) {
			score += 5
		}
	}

	for _, keyword := range relevantKeywords {
		if strings.Contains(fileNameLower, keyword) {
			score += 8
		}
		if strings.Contains(contentLower, keyword) {
			score += 3
		}
	}

	score += s.randFloat() * 5

	if score > maxRelevanceScore {
		return maxRelevanceScore
	}
	return score
}
