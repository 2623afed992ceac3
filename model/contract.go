package model

import (
	"time"
)

// OriginalFile holds metadata about the uploaded source document.
// It is only present on contracts created through the upload endpoint.
type OriginalFile struct {
	FileName string `json:"fileName" bson:"file_name"`
	MimeType string `json:"mimeType" bson:"mime_type"`
	Size     int64  `json:"size" bson:"size"`
	URL      string `json:"url" bson:"url"`
}

// Contract represents a contract document owned by a single user.
// Ownership is set at creation and never transferred.
type Contract struct {
	ID           string        `json:"id" bson:"_id"`
	Owner        string        `json:"owner" bson:"owner"`
	Title        string        `json:"title" bson:"title"`
	Content      string        `json:"content" bson:"content"`
	Status       string        `json:"status" bson:"status"`
	AIInsights   string        `json:"aiInsights,omitempty" bson:"ai_insights,omitempty"`
	OriginalFile *OriginalFile `json:"originalFile,omitempty" bson:"original_file,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}

const (
	// StatusDraft is the initial status of every contract. No in-scope
	// operation transitions it.
	StatusDraft = "draft"

	// DefaultTitle is used when neither a title nor a filename is available.
	DefaultTitle = "Untitled contract"
)
