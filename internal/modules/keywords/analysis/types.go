package analysis

import "github.com/yungbote/seoplanner-backend/internal/domain/seo"

// Kind tags which response shape a payload carries.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindStructure  Kind = "structure"
	KindValidation Kind = "validation"
)

type Duplicate struct {
	Canonical string   `json:"canonical"`
	Keywords  []string `json:"keywords"`
	Reason    string   `json:"reason,omitempty"`
}

type ProposedCluster struct {
	Name          string   `json:"name"`
	Intent        string   `json:"intent,omitempty"`
	PillarKeyword string   `json:"pillar_keyword,omitempty"`
	Keywords      []string `json:"keywords"`
}

type Canibalization struct {
	Keywords       []string `json:"keywords"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// AnalysisPayload is the {duplicates, clusters, canibalizations, intentions} shape.
type AnalysisPayload struct {
	Duplicates      []Duplicate       `json:"duplicates"`
	Clusters        []ProposedCluster `json:"clusters"`
	Canibalizations []Canibalization  `json:"canibalizations"`
	Intentions      map[string]string `json:"intentions"`
}

type URLReview struct {
	URL        string `json:"url"`
	Valid      bool   `json:"valid"`
	Issue      string `json:"issue,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Protected  bool   `json:"protected"`
}

type ValidationSummary struct {
	Valid   bool     `json:"valid"`
	Issues  []string `json:"issues,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

// ValidationPayload is the {urls, validation} shape.
type ValidationPayload struct {
	URLs       []URLReview       `json:"urls"`
	Validation ValidationSummary `json:"validation"`
}

// Response is a parsed model reply; exactly one payload is set, matching Kind.
type Response struct {
	Kind       Kind
	Analysis   *AnalysisPayload
	Structure  *seo.Proposal
	Validation *ValidationPayload
}

// SemanticAnalysisResult merges every successful batch.
type SemanticAnalysisResult struct {
	AnalysisPayload
	TotalBatches  int      `json:"total_batches"`
	FailedBatches []int    `json:"failed_batches"`
	FailedCount   int      `json:"failed_count"`
	BatchErrors   []string `json:"batch_errors,omitempty"`
	CachedBatches int      `json:"cached_batches"`
}
