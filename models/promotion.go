package models

import "time"

// Promotion, a role granted to a member by a staff member.
//
// Active/RevokedAt/RevokedBy mirror Infraction so both collections share one
// shape. Nothing revokes a promotion yet; the fields stay at their defaults.
type Promotion struct {
	ID             string     `json:"id" bson:"_id"`
	CaseID         string     `json:"case_id" bson:"case_id"`
	ServerID       string     `json:"server_id" bson:"server_id"`
	SubjectUserID  string     `json:"subject_user_id" bson:"subject_user_id"`
	RoleID         string     `json:"role_id" bson:"role_id"`
	PromoterUserID string     `json:"promoter_user_id" bson:"promoter_user_id"`
	Active         bool       `json:"active" bson:"active"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	RevokedAt      *time.Time `json:"revoked_at" bson:"revoked_at,omitempty"`
	RevokedBy      *string    `json:"revoked_by" bson:"revoked_by,omitempty"`
}
