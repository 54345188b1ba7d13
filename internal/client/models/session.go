package models

import "time"

type Session struct {
	ID            string     `json:"id"`
	ShareCode     string     `json:"share_code"`
	InviterUserID string     `json:"inviter_user_id"`
	PartnerUserID *string    `json:"partner_user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	PairedAt      *time.Time `json:"paired_at"`
}

// Paired reports whether a partner has joined.
func (s *Session) Paired() bool {
	return s != nil && s.PartnerUserID != nil
}
