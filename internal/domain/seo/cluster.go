package seo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriorityScore is the composite ranking stored on a cluster; every field is in [0,100].
type PriorityScore struct {
	SEOScore        float64 `gorm:"column:seo_score;not null;default:0" json:"seo_score"`
	BusinessValue   float64 `gorm:"column:business_value;not null;default:0" json:"business_value"`
	DifficultyScore float64 `gorm:"column:difficulty_score;not null;default:0" json:"difficulty_score"`
	FinalPriority   int     `gorm:"column:final_priority;not null;default:0;index" json:"final_priority"`
}

// PillarContent tracks the page a cluster is written into.
type PillarContent struct {
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type Cluster struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string      `gorm:"column:name;not null;index" json:"name"`
	Description string      `gorm:"column:description" json:"description"`
	Intent      IntentLabel `gorm:"column:intent;not null;default:unknown" json:"intent"`

	KeywordCount      int `gorm:"column:keyword_count;not null;default:0" json:"keyword_count"`
	SearchVolumeTotal int `gorm:"column:search_volume_total;not null;default:0" json:"search_volume_total"`
	DifficultyAvg     int `gorm:"column:difficulty_avg;not null;default:0" json:"difficulty_avg"`

	IsPillarPage      bool        `gorm:"column:is_pillar_page;not null;default:false" json:"is_pillar_page"`
	ParentClusterID   *uuid.UUID  `gorm:"type:uuid;column:parent_cluster_id;index" json:"parent_cluster_id"`
	ContentTypeTarget ContentType `gorm:"column:content_type_target;not null;default:landing" json:"content_type_target"`

	PriorityScore     PriorityScore  `gorm:"embedded;embeddedPrefix:priority_" json:"priority_score"`
	PillarContentData datatypes.JSON `gorm:"column:pillar_content_data;type:jsonb" json:"pillar_content_data"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Cluster) TableName() string { return "cluster" }

func (c *Cluster) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Pillar decodes PillarContentData; nil when unset.
func (c *Cluster) Pillar() *PillarContent {
	if c == nil || len(c.PillarContentData) == 0 || string(c.PillarContentData) == "null" {
		return nil
	}
	var p PillarContent
	if err := json.Unmarshal(c.PillarContentData, &p); err != nil {
		return nil
	}
	return &p
}

func (c *Cluster) PillarURL() string {
	if p := c.Pillar(); p != nil {
		return p.URL
	}
	return ""
}

func (c *Cluster) SetPillar(p *PillarContent) {
	if p == nil {
		c.PillarContentData = nil
		return
	}
	raw, _ := json.Marshal(p)
	c.PillarContentData = datatypes.JSON(raw)
}

// ClusterRelation is a similarity-derived edge between two clusters.
type ClusterRelation struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SourceClusterID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_cluster_relation_pair,priority:1" json:"source_cluster_id"`
	TargetClusterID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_cluster_relation_pair,priority:2" json:"target_cluster_id"`
	SimilarityScore float64      `gorm:"column:similarity_score;not null" json:"similarity_score"`
	RelationType    RelationType `gorm:"column:relation_type;not null" json:"relation_type"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ClusterRelation) TableName() string { return "cluster_relation" }

func (r *ClusterRelation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
