package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	ThumbnailURL string    `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	IsActive     bool      `gorm:"column:is_active;not null;index" json:"is_active"`

	// Optional. A course without a roadmap has no progress concept.
	Roadmap *Roadmap `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"roadmap,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

type Roadmap struct {
	ID                       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"course_id"`
	Title                    string    `gorm:"column:title;not null" json:"title"`
	Description              string    `gorm:"column:description;type:text" json:"description"`
	EstimatedDurationMinutes int       `gorm:"column:estimated_duration_minutes;not null;default:0" json:"estimated_duration_minutes"`

	Steps []*Step `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoadmapID;references:ID" json:"steps,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Roadmap) TableName() string { return "course_roadmap" }

type Step struct {
	ID                       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadmapID                uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roadmap_step_order,priority:1" json:"roadmap_id"`
	Title                    string    `gorm:"column:title;not null" json:"title"`
	Description              string    `gorm:"column:description;type:text" json:"description"`
	Order                    int       `gorm:"column:step_order;not null;uniqueIndex:idx_roadmap_step_order,priority:2" json:"order"`
	IsRequired               bool      `gorm:"column:is_required;not null" json:"is_required"`
	EstimatedDurationMinutes int       `gorm:"column:estimated_duration_minutes;not null;default:0" json:"estimated_duration_minutes"`

	Contents []*Content `gorm:"constraint:OnDelete:CASCADE;foreignKey:StepID;references:ID" json:"contents,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Step) TableName() string { return "roadmap_step" }

type ContentType string

const (
	ContentTypeText         ContentType = "text"
	ContentTypeVideoLink    ContentType = "video_link"
	ContentTypeDocumentLink ContentType = "document_link"
	ContentTypeExternalLink ContentType = "external_link"
)

type Content struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StepID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"step_id"`
	Type        ContentType `gorm:"column:type;not null" json:"type"`
	Title       string      `gorm:"column:title;not null" json:"title"`
	Description string      `gorm:"column:description;type:text" json:"description,omitempty"`
	Body        string      `gorm:"column:body;type:text" json:"body,omitempty"`
	LinkURL     string      `gorm:"column:link_url" json:"link_url,omitempty"`
	EmbedURL    string      `gorm:"column:embed_url" json:"embed_url,omitempty"`
	Platform    string      `gorm:"column:platform" json:"platform,omitempty"`
	Order       int         `gorm:"column:content_order;not null" json:"order"`
	IsRequired  bool        `gorm:"column:is_required;not null" json:"is_required"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Content) TableName() string { return "course_content" }
