package models

// Audit payloads are closed, versioned structs rather than free-form maps so
// canonicalization is total and stable as the schema evolves. Every envelope
// carries SchemaVersion; consumers of historical events key off it.

// MemberCreatePayload describes a member.create event.
type MemberCreatePayload struct {
	SchemaVersion int    `json:"schema_version"`
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	AdmissionDate string `json:"admission_date"`
	PlanType      string `json:"plan_type"`
}

// MemberDeletePayload describes a member.delete event.
type MemberDeletePayload struct {
	SchemaVersion int     `json:"schema_version"`
	MemberID      string  `json:"member_id"`
	UserID        *string `json:"user_id,omitempty"`
}

// MemberPlanUpdatePayload describes a member.plan.update event.
type MemberPlanUpdatePayload struct {
	SchemaVersion int     `json:"schema_version"`
	MemberID      string  `json:"member_id"`
	PlanType      string  `json:"plan_type"`
	UserID        *string `json:"user_id,omitempty"`
}

// PaymentTxnMonthlyPayload describes a payment.txn.monthly event.
type PaymentTxnMonthlyPayload struct {
	SchemaVersion int     `json:"schema_version"`
	MemberID      string  `json:"member_id"`
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	Amount        int64   `json:"amount"`
	Method        string  `json:"method,omitempty"`
	UserID        *string `json:"user_id,omitempty"`
}

// PaymentTxnYearlyPayload describes a payment.txn.yearly event.
type PaymentTxnYearlyPayload struct {
	SchemaVersion int     `json:"schema_version"`
	MemberID      string  `json:"member_id"`
	Year          int     `json:"year"`
	Amount        int64   `json:"amount"`
	Method        string  `json:"method,omitempty"`
	UserID        *string `json:"user_id,omitempty"`
}

// PaymentUpdatePayload describes a manual payment.update override.
type PaymentUpdatePayload struct {
	SchemaVersion int     `json:"schema_version"`
	MemberID      string  `json:"member_id"`
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	Status        string  `json:"status"`
	UserID        *string `json:"user_id,omitempty"`
}

// SettingUpdatePayload describes a setting.update event.
type SettingUpdatePayload struct {
	SchemaVersion int     `json:"schema_version"`
	Key           string  `json:"key"`
	Value         string  `json:"value"`
	UserID        *string `json:"user_id,omitempty"`
}
