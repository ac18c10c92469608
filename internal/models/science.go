package models

import "time"

type ScienceQuery struct {
	Field               string `json:"field"`
	Timeframe           string `json:"timeframe"`    // "live" | "today" | "week" | "month"
	Significance        string `json:"significance"` // "breakthrough" | "major" | "all"
	ContentType         string `json:"contentType"`
	Count               int    `json:"count"`
	Difficulty          string `json:"difficulty"`
	IncludeImplications *bool  `json:"includeImplications,omitempty"`
}

type Researcher struct {
	Name        string   `json:"name"`
	Affiliation string   `json:"affiliation"`
	Role        string   `json:"role"`
	Expertise   []string `json:"expertise"`
}

type Institution struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Type       string  `json:"type"`
	Reputation float64 `json:"reputation"`
}

type Application struct {
	Area                string  `json:"area"`
	Description         string  `json:"description"`
	Timeframe           string  `json:"timeframe"`
	Impact              string  `json:"impact"`
	CommercialPotential float64 `json:"commercialPotential"`
}

type ScientificDiscovery struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Field            string        `json:"field"`
	Subfield         string        `json:"subfield,omitempty"`
	Significance     string        `json:"significance"`
	Researchers      []Researcher  `json:"researchers"`
	Institutions     []Institution `json:"institutions"`
	PublicationDate  time.Time     `json:"publicationDate"`
	Journal          string        `json:"journal,omitempty"`
	Methodology      string        `json:"methodology"`
	KeyFindings      []string      `json:"keyFindings"`
	Limitations      []string      `json:"limitations"`
	Applications     []Application `json:"applications"`
	Sources          []Source      `json:"sources"`
	PeerReviewStatus string        `json:"peerReviewStatus"`
	Reproducibility  string        `json:"reproducibility"`
}

type FundingTrend struct {
	TotalFunding  float64  `json:"totalFunding"`
	FundingChange float64  `json:"fundingChange"`
	MajorFunders  []string `json:"majorFunders"`
	FundingFocus  []string `json:"fundingFocus"`
}

type ResearchTrend struct {
	Trend              string       `json:"trend"`
	Field              string       `json:"field"`
	Direction          string       `json:"direction"`
	Momentum           float64      `json:"momentum"`
	KeyDrivers         []string     `json:"keyDrivers"`
	RelatedDiscoveries []string     `json:"relatedDiscoveries"`
	FundingTrends      FundingTrend `json:"fundingTrends"`
	Timeframe          string       `json:"timeframe"`
}

type FutureImplication struct {
	Discovery      string   `json:"discovery"`
	Implication    string   `json:"implication"`
	Category       string   `json:"category"`
	Probability    float64  `json:"probability"`
	Timeframe      string   `json:"timeframe"`
	Prerequisites  []string `json:"prerequisites"`
	PotentialRisks []string `json:"potentialRisks"`
	SocietalImpact string   `json:"societalImpact"`
}

type ScienceTrackerResult struct {
	Field              string                `json:"field"`
	GeneratedContent   []LearningItem        `json:"generatedContent"`
	Discoveries        []ScientificDiscovery `json:"discoveries"`
	ResearchTrends     []ResearchTrend       `json:"researchTrends"`
	FutureImplications []FutureImplication   `json:"futureImplications"`
	Sources            []Source              `json:"sources"`
	LastUpdated        time.Time             `json:"lastUpdated"`
	InnovationScore    float64               `json:"innovationScore"`
}
