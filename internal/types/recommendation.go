package types

// Recommendation is the normalized output of one generation call
type Recommendation struct {
	Food        string   `json:"food"`
	Reason      string   `json:"reason"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// NewRecommendation returns a Recommendation whose lists encode as [] rather than null
func NewRecommendation() Recommendation {
	return Recommendation{
		Ingredients: []string{},
		Steps:       []string{},
	}
}
