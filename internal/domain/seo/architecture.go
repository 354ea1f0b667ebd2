package seo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Silo is the top theme of the target site architecture.
type Silo struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;index" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Silo) TableName() string { return "silo" }

func (s *Silo) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SiloID uuid.UUID `gorm:"type:uuid;not null;index:idx_category_silo_name,priority:1" json:"silo_id"`
	Name   string    `gorm:"column:name;not null;index:idx_category_silo_name,priority:2" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Page struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	MainKeyword string    `gorm:"column:main_keyword;not null;index" json:"main_keyword"`
	// MainKeywordKey is TextKey(MainKeyword).
	MainKeywordKey string      `gorm:"column:main_keyword_key;not null;default:'';index" json:"-"`
	Slug           string      `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Type           string      `gorm:"column:type" json:"type"`
	IsPillar       bool        `gorm:"column:is_pillar;not null;default:false" json:"is_pillar"`
	Intent         IntentLabel `gorm:"column:intent" json:"intent"`

	Entity            string         `gorm:"column:entity" json:"entity"`
	ContentDifficulty *int           `gorm:"column:content_difficulty" json:"content_difficulty"`
	InternalLinking   datatypes.JSON `gorm:"column:internal_linking;type:jsonb" json:"internal_linking"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Page) TableName() string { return "page" }

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.MainKeywordKey = TextKey(p.MainKeyword)
	return nil
}

func (p *Page) LinkedSlugs() []string {
	if p == nil || len(p.InternalLinking) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(p.InternalLinking, &out)
	return out
}

func (p *Page) SetLinkedSlugs(slugs []string) {
	if slugs == nil {
		slugs = []string{}
	}
	raw, _ := json.Marshal(slugs)
	p.InternalLinking = datatypes.JSON(raw)
}

// KeywordAssignment joins a keyword to the page that targets it.
type KeywordAssignment struct {
	KeywordID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"keyword_id"`
	PageID     uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"page_id"`
	AssignedAt time.Time `gorm:"column:assigned_at;not null" json:"assigned_at"`
}

func (KeywordAssignment) TableName() string { return "keyword_assignment" }
