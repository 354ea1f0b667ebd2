package seo

import "strings"

// IntentLabel is the classified search purpose of a keyword.
type IntentLabel string

const (
	IntentInformational IntentLabel = "informational"
	IntentTransactional IntentLabel = "transactional"
	IntentCommercial    IntentLabel = "commercial"
	IntentNavigational  IntentLabel = "navigational"
	IntentUnknown       IntentLabel = "unknown"
)

// ParseIntent maps free text (including LLM output) onto a known label.
func ParseIntent(raw string) IntentLabel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "informational", "informativa", "informacional":
		return IntentInformational
	case "transactional", "transaccional":
		return IntentTransactional
	case "commercial", "comercial":
		return IntentCommercial
	case "navigational", "navegacional":
		return IntentNavigational
	default:
		return IntentUnknown
	}
}

type KeywordStatus string

const (
	KeywordPending   KeywordStatus = "pending"
	KeywordClustered KeywordStatus = "clustered"
	KeywordDiscarded KeywordStatus = "discarded"
)

func (s KeywordStatus) Valid() bool {
	switch s {
	case KeywordPending, KeywordClustered, KeywordDiscarded:
		return true
	}
	return false
}

type ContentType string

const (
	ContentService ContentType = "service"
	ContentBlog    ContentType = "blog"
	ContentLanding ContentType = "landing"
)

// ContentTypeForIntent picks the content target a cluster should be written as.
func ContentTypeForIntent(intent IntentLabel) ContentType {
	switch intent {
	case IntentInformational:
		return ContentBlog
	case IntentTransactional, IntentCommercial:
		return ContentService
	default:
		return ContentLanding
	}
}

type RelationType string

const (
	RelationCanibalization RelationType = "canibalization"
	RelationInternalLink   RelationType = "internal_link"
)

// Discard reasons written by automated flows.
const (
	ReasonNotInProposal = "not relevant to proposal"
	ReasonManual        = "manual"
	ReasonOffTopic      = "off_topic"
	ReasonProposal      = "proposal_review"
)
