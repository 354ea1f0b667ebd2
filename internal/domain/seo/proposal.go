package seo

// Proposal is a candidate silo/category/page structure awaiting review.
type Proposal struct {
	Silos      []ProposalSilo    `json:"silos" yaml:"silos"`
	Intentions map[string]string `json:"intentions,omitempty" yaml:"intentions,omitempty"`
}

type ProposalSilo struct {
	Name       string             `json:"name" yaml:"name"`
	Categories []ProposalCategory `json:"categories" yaml:"categories"`
}

type ProposalCategory struct {
	Name  string         `json:"name" yaml:"name"`
	Pages []ProposalPage `json:"pages" yaml:"pages"`
}

type ProposalPage struct {
	MainKeyword       string   `json:"main_keyword" yaml:"main_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords" yaml:"secondary_keywords"`
	Type              string   `json:"type" yaml:"type"`
	IsPillar          bool     `json:"is_pillar" yaml:"is_pillar"`
	Intent            string   `json:"intent" yaml:"intent"`
	Entity            string   `json:"entity,omitempty" yaml:"entity,omitempty"`
	ContentDifficulty *int     `json:"content_difficulty,omitempty" yaml:"content_difficulty,omitempty"`
	InternalLinking   []string `json:"internal_linking,omitempty" yaml:"internal_linking,omitempty"`
}

// Keywords returns the main keyword followed by the secondary ones.
func (p ProposalPage) Keywords() []string {
	out := make([]string, 0, 1+len(p.SecondaryKeywords))
	if p.MainKeyword != "" {
		out = append(out, p.MainKeyword)
	}
	return append(out, p.SecondaryKeywords...)
}
