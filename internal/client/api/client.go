// Package api implements the HTTP client for the handshare server.
// Responses are decoded into the wire models; error bodies are mapped back
// to the shared sentinel errors so callers can use errors.Is across the
// client/server boundary.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/connectinghands/handshare/internal/client/models"
	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/netx"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do performs a JSON request. A response arriving at all means the failure
// is a domain error; anything before that is wrapped as ErrorTransport.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

func (c *Client) Healthz(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, displayName string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/users", map[string]string{"display_name": displayName}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateSession(ctx context.Context, inviterUserID string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/sessions",
		map[string]string{"inviter_user_id": inviterUserID}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) JoinSession(ctx context.Context, shareCode, partnerUserID string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/sessions/join",
		map[string]string{"share_code": shareCode, "partner_user_id": partnerUserID}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UploadModelBase64(ctx context.Context, sessionID, ownerUserID string, payload []byte, contentType string) (*models.HandModel, error) {
	var model models.HandModel
	err := c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/hand-models/base64",
		map[string]string{
			"owner_user_id": ownerUserID,
			"glb_base64":    base64.StdEncoding.EncodeToString(payload),
			"content_type":  contentType,
		}, &model)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (c *Client) Poll(ctx context.Context, sessionID, afterModelID string) (*models.PollResult, error) {
	var result models.PollResult
	path := "/sessions/" + url.PathEscape(sessionID) + "/poll"
	if afterModelID != "" {
		path += "?after_hand_model_id=" + url.QueryEscape(afterModelID)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetHandModel(ctx context.Context, id, viewerUserID string) (*models.HandModel, error) {
	var model models.HandModel
	path := "/hand-models/" + url.PathEscape(id)
	if viewerUserID != "" {
		path += "?viewer_user_id=" + url.QueryEscape(viewerUserID)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &model)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (c *Client) LatestHandModel(ctx context.Context, sessionID string) (*models.HandModel, error) {
	var model models.HandModel
	err := c.do(ctx, http.MethodGet,
		"/sessions/"+url.PathEscape(sessionID)+"/hand-models/latest", nil, &model)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (c *Client) ConfirmDelivery(ctx context.Context, modelID, partnerUserID string) (*models.HandModel, error) {
	var model models.HandModel
	err := c.do(ctx, http.MethodPost, "/hand-models/"+url.PathEscape(modelID)+"/confirm",
		map[string]string{"partner_user_id": partnerUserID}, &model)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// Download fetches a signed download URL produced by the server.
func (c *Client) Download(ctx context.Context, downloadURL string) ([]byte, error) {
	data, err := netx.FetchURL(ctx, c.httpClient, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return data, nil
}
