package models

import "time"

// HandModel is a GLB artifact uploaded into a session and stored in blob
// storage under StorageKey. DownloadURL is derived per response and never
// persisted.
type HandModel struct {
	ID            string     `json:"id"`
	SessionID     string     `json:"session_id"`
	OwnerUserID   string     `json:"owner_user_id"`
	StorageKey    string     `json:"storage_key"`
	FileSizeBytes int64      `json:"file_size_bytes"`
	ContentType   string     `json:"content_type"`
	CreatedAt     time.Time  `json:"created_at"`
	RetrievedAt   *time.Time `json:"retrieved_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`

	DownloadURL string `json:"download_url,omitempty"`
}
