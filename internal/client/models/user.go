// Package models holds the wire types the client exchanges with the
// handshare API.
package models

import "time"

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
