package models

import "time"

type HandModel struct {
	ID            string     `json:"id"`
	SessionID     string     `json:"session_id"`
	OwnerUserID   string     `json:"owner_user_id"`
	FileSizeBytes int64      `json:"file_size_bytes"`
	ContentType   string     `json:"content_type"`
	CreatedAt     time.Time  `json:"created_at"`
	RetrievedAt   *time.Time `json:"retrieved_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`
	DownloadURL   string     `json:"download_url,omitempty"`
}

type PollResult struct {
	Session     *Session   `json:"session"`
	LatestModel *HandModel `json:"latest_model"`
	HasNewModel bool       `json:"has_new_model"`
}
