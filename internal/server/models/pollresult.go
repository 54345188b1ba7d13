package models

// PollResult is the ephemeral answer to "anything new since my cursor?".
// It is recomputed per call; the server keeps no per-client state.
type PollResult struct {
	Session     *Session   `json:"session"`
	LatestModel *HandModel `json:"latest_model"`
	HasNewModel bool       `json:"has_new_model"`
}
