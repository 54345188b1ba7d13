package models

import "time"

// Session is a pairing session between an inviter and at most one partner.
// PartnerUserID transitions from nil to a user id exactly once.
type Session struct {
	ID            string     `json:"id"`
	ShareCode     string     `json:"share_code"`
	InviterUserID string     `json:"inviter_user_id"`
	PartnerUserID *string    `json:"partner_user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	PairedAt      *time.Time `json:"paired_at"`
}

// HasParticipant reports whether userID is the inviter or the joined partner.
func (s *Session) HasParticipant(userID string) bool {
	if userID == s.InviterUserID {
		return true
	}
	return s.PartnerUserID != nil && *s.PartnerUserID == userID
}
