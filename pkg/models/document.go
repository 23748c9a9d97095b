package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded requirements PDF after text extraction.
// ExtractedText holds the full extracted text, not the truncated
// preview the upload response carries.
type Document struct {
	ID            uuid.UUID  `json:"id"`
	UserID        *uuid.UUID `json:"userId,omitempty"`
	Filename      string     `json:"filename"`
	ExtractedText string     `json:"extractedText"`
	PageCount     int        `json:"pageCount"`
	SizeBytes     int64      `json:"sizeBytes"`
	CreatedAt     time.Time  `json:"createdAt"`
}
