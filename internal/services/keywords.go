package services

import (
	"math"
	"strings"
)

// keywordGroup adds weight once for every listed keyword found in the text.
type keywordGroup struct {
	weight float64
	words  []string
}

// keywordScore is base plus the weighted keyword hits, capped at 100. Matching
// is a case-insensitive substring test.
func keywordScore(text string, base float64, groups ...keywordGroup) float64 {
	lower := strings.ToLower(text)
	score := base
	for _, g := range groups {
		for _, w := range g.words {
			if strings.Contains(lower, strings.ToLower(w)) {
				score += g.weight
			}
		}
	}
	return math.Min(score, 100)
}

var (
	eventKeywords = []keywordGroup{
		{15, []string{"war", "election", "crisis", "breakthrough", "summit", "sanctions", "treaty", "pandemic", "climate", "AI"}},
		{5, []string{"agreement", "policy", "trade", "diplomatic", "economic", "technology", "security"}},
	}

	scienceKeywords = []keywordGroup{
		{20, []string{"breakthrough", "first", "novel", "revolutionary", "unprecedented", "cure", "quantum", "AI", "CRISPR", "fusion"}},
		{10, []string{"clinical trial", "peer-reviewed", "Nature", "Science", "Cell", "published", "discovery", "innovation"}},
		{5, []string{"machine learning", "gene therapy", "immunotherapy", "nanotechnology", "bioengineering", "renewable"}},
	}

	skillKeywords = []keywordGroup{
		{10, []string{"AI", "machine learning", "cloud", "cybersecurity", "blockchain", "data science", "DevOps", "remote work", "automation"}},
	}

	viralKeywords = []keywordGroup{
		{20, []string{"viral", "trending", "millions", "breakthrough", "explosive", "phenomenon", "sensation"}},
		{10, []string{"shares", "likes", "comments", "views", "engagement", "reach", "audience"}},
		{15, []string{"learn", "educational", "explains", "teaches", "demonstrates", "science", "facts"}},
	}
)

func eventScore(text string) float64   { return keywordScore(text, 60, eventKeywords...) }
func scienceScore(text string) float64 { return keywordScore(text, 60, scienceKeywords...) }
func skillScore(text string) float64   { return keywordScore(text, 70, skillKeywords...) }
func viralScore(text string) float64   { return keywordScore(text, 50, viralKeywords...) }
