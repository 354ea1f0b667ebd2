package seo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Keyword struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text string    `gorm:"column:text;not null;index" json:"text"`
	// TextKey is TextKey(Text); every case-insensitive lookup goes through it.
	TextKey      string   `gorm:"column:text_key;not null;default:'';index" json:"-"`
	SearchVolume int      `gorm:"column:search_volume;not null;default:0" json:"search_volume"`
	Difficulty   *int     `gorm:"column:difficulty" json:"difficulty"`
	CPC          *float64 `gorm:"column:cpc" json:"cpc"`

	Intent    *IntentLabel  `gorm:"column:intent" json:"intent"`
	ClusterID *uuid.UUID    `gorm:"type:uuid;column:cluster_id;index" json:"cluster_id"`
	Status    KeywordStatus `gorm:"column:status;not null;default:pending;index" json:"status"`

	DiscardedReason *string    `gorm:"column:discarded_reason" json:"discarded_reason"`
	DiscardedAt     *time.Time `gorm:"column:discarded_at" json:"discarded_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Keyword) TableName() string { return "keyword" }

func (k *Keyword) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	if k.Status == "" {
		k.Status = KeywordPending
	}
	k.TextKey = TextKey(k.Text)
	return nil
}

// NormalizeText collapses runs of whitespace and trims the ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TextKey is the matching key for keyword texts: normalised and lowercased
// in Go, so matching does not depend on the store's LOWER().
func TextKey(s string) string {
	return strings.ToLower(NormalizeText(s))
}

// KeywordRef is the minimal view the grouping stages work on.
type KeywordRef struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	SearchVolume int       `json:"search_volume"`
	Difficulty   *int      `json:"difficulty,omitempty"`
}

func (k *Keyword) Ref() KeywordRef {
	return KeywordRef{ID: k.ID, Text: k.Text, SearchVolume: k.SearchVolume, Difficulty: k.Difficulty}
}
