package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/connectinghands/handshare/internal/common"
)

type wireError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeError maps a non-2xx response body back to the sentinel error the
// server raised. Unknown kinds degrade to ErrorInternal.
func decodeError(resp *http.Response) error {
	var we wireError
	if err := json.NewDecoder(resp.Body).Decode(&we); err != nil {
		return fmt.Errorf("%w: unexpected status %d", common.ErrorInternal, resp.StatusCode)
	}

	var sentinel error
	switch we.Error {
	case "invalid_user":
		sentinel = common.ErrorInvalidUser
	case "invalid_payload":
		sentinel = common.ErrorInvalidPayload
	case "not_found":
		sentinel = common.ErrorNotFound
	case "forbidden":
		sentinel = common.ErrorForbidden
	case "already_paired":
		sentinel = common.ErrorAlreadyPaired
	case "payload_too_large":
		sentinel = common.ErrorPayloadTooLarge
	default:
		sentinel = common.ErrorInternal
	}

	if we.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, we.Message)
	}
	return sentinel
}
