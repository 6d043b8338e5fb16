// Package models, Infraction: the sanction record.
//
// How infractions work:
// 1. A staff member issues an infraction → a record is created with Active=true
// 2. The notice goes to the action channel and the log channel
// 3. A staff member revokes it by case id → Active=false, RevokedAt/RevokedBy set
// 4. Revocation is terminal: an inactive infraction can never be revoked again
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxReasonLength, upper bound of an infraction reason (same as the platform's ban reason).
const MaxReasonLength = 512

// Infraction, a sanction issued against a server member.
type Infraction struct {
	ID            string     `json:"id" bson:"_id"`
	CaseID        string     `json:"case_id" bson:"case_id"`
	ServerID      string     `json:"server_id" bson:"server_id"`
	SubjectUserID string     `json:"subject_user_id" bson:"subject_user_id"`
	IssuerUserID  string     `json:"issuer_user_id" bson:"issuer_user_id"`
	Reason        string     `json:"reason" bson:"reason"`
	Active        bool       `json:"active" bson:"active"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	RevokedAt     *time.Time `json:"revoked_at" bson:"revoked_at,omitempty"`
	RevokedBy     *string    `json:"revoked_by" bson:"revoked_by,omitempty"`
}

// IssueInfractionRequest, the input of "infraction issue".
type IssueInfractionRequest struct {
	SubjectUserID string
	Reason        string
}

// Validate, IssueInfractionRequest check. Trims the reason in place.
func (r *IssueInfractionRequest) Validate() error {
	if r.SubjectUserID == "" {
		return fmt.Errorf("user is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if utf8.RuneCountInString(r.Reason) > MaxReasonLength {
		return fmt.Errorf("reason must be at most %d characters", MaxReasonLength)
	}
	return nil
}
