package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BulkRun is the persisted summary of one bulk ingestion run. Errors keep
// the input order of the failed items so a caller can retry exactly the
// failed subset.
type BulkRun struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RunID   string             `bson:"run_id" json:"runId"` // uuid v4
	OwnerID string             `bson:"owner_id" json:"userId"`

	Total        int            `bson:"total" json:"total"`
	SuccessCount int            `bson:"success_count" json:"successCount"`
	FailureCount int            `bson:"failure_count" json:"failureCount"`
	Errors       []BulkRunError `bson:"errors" json:"errors"`

	// Object key of the exported JSON report, when a reports bucket is
	// configured.
	ReportPath string `bson:"report_path,omitempty" json:"reportPath,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type BulkRunError struct {
	Item  string `bson:"item" json:"item"` // enrollment number, else name, else "Unknown"
	Error string `bson:"error" json:"error"`
}
