package models

import "time"

// AuditSchemaVersion is the current version stamped into audit payload
// envelopes. Bump it when a payload shape changes; historical digests stay
// valid because verification replays the stored payload bytes.
const AuditSchemaVersion = 1

// Audit actions recorded by this application.
const (
	ActionMemberCreate     = "member.create"
	ActionMemberDelete     = "member.delete"
	ActionMemberPlanUpdate = "member.plan.update"
	ActionPaymentMonthly   = "payment.txn.monthly"
	ActionPaymentYearly    = "payment.txn.yearly"
	ActionPaymentUpdate    = "payment.update"
	ActionSettingUpdate    = "setting.update"
)

// AuditEvent is one link of the hash chain. Events are append-only: no
// update or delete path exists anywhere in the codebase, and Verify detects
// after-the-fact tampering with any stored field that feeds the digest.
//
// Timestamp is stored as the exact RFC 3339 string that was hashed, rather
// than a native time column, so verification never depends on a database
// round-trip preserving sub-second precision.
type AuditEvent struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	Sequence      uint64    `gorm:"not null;uniqueIndex" json:"sequence"`
	Timestamp     string    `gorm:"not null" json:"timestamp"`
	Action        string    `gorm:"not null;index" json:"action"`
	Payload       string    `gorm:"not null" json:"payload"`
	SchemaVersion int       `gorm:"not null" json:"schema_version"`
	PrevDigest    string    `gorm:"size:64" json:"prev_digest"`
	Digest        string    `gorm:"size:64;not null" json:"digest"`
	CreatedAt     time.Time `json:"created_at"`
}

// VerificationResult reports the outcome of a full-chain replay. A broken
// chain is an expected, actionable outcome, not an error: BrokenAtSequence
// localizes the earliest tampered or corrupted event for the operator.
type VerificationResult struct {
	OK               bool    `json:"ok"`
	Checked          int64   `json:"checked"`
	BrokenAtSequence *uint64 `json:"broken_at_sequence,omitempty"`
}
