// Package models holds the persistent entities of the pairing/handoff
// workflow. The JSON tags define the wire shapes served by the HTTP API.
package models

import "time"

// User is a lightweight identity record. There is no authentication:
// clients create a user once and pass its id in later calls.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
