package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceFile is a stored source document (the original PDF bytes).
type InvoiceFile struct {
	ID          uuid.UUID
	Filename    string
	ContentType string
	SizeBytes   int64
	Data        []byte
	UploadedAt  time.Time
}
