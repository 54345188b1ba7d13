package httpapi

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createUserRequest struct {
	DisplayName string `json:"display_name"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}

	user, err := s.users.Create(c.Request.Context(), req.DisplayName)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type createSessionRequest struct {
	InviterUserID string `json:"inviter_user_id"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}

	session, err := s.sessions.Create(c.Request.Context(), req.InviterUserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

type joinSessionRequest struct {
	ShareCode     string `json:"share_code"`
	PartnerUserID string `json:"partner_user_id"`
}

func (s *Server) joinSession(c *gin.Context) {
	var req joinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}

	session, err := s.sessions.Join(c.Request.Context(), req.ShareCode, req.PartnerUserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) getSession(c *gin.Context) {
	session, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) poll(c *gin.Context) {
	result, err := s.sessions.Poll(c.Request.Context(), c.Param("id"), c.Query("after_hand_model_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type uploadBase64Request struct {
	OwnerUserID string `json:"owner_user_id"`
	GlbBase64   string `json:"glb_base64"`
	ContentType string `json:"content_type"`
}

func (s *Server) uploadHandModelBase64(c *gin.Context) {
	var req uploadBase64Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}

	payload, err := base64.StdEncoding.DecodeString(req.GlbBase64)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: glb_base64 is not valid base64", common.ErrorInvalidPayload))
		return
	}

	model, err := s.handModels.Upload(c.Request.Context(), c.Param("id"), req.OwnerUserID, payload, req.ContentType)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model)
}

func (s *Server) uploadHandModelMultipart(c *gin.Context) {
	ownerUserID := c.PostForm("owner_user_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: missing file field", common.ErrorInvalidPayload))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}
	defer f.Close()

	// One byte past the cap so the service can report the overflow.
	payload, err := io.ReadAll(io.LimitReader(f, s.maxModelSize+1))
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}

	model, err := s.handModels.Upload(c.Request.Context(), c.Param("id"), ownerUserID,
		payload, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model)
}

func (s *Server) latestHandModel(c *gin.Context) {
	model, err := s.handModels.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model)
}

func (s *Server) getHandModel(c *gin.Context) {
	model, err := s.handModels.Get(c.Request.Context(), c.Param("id"), c.Query("viewer_user_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model)
}

type confirmRequest struct {
	PartnerUserID string `json:"partner_user_id" form:"partner_user_id"`
}

func (s *Server) confirmHandModel(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBind(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
		return
	}

	model, err := s.handModels.Confirm(c.Request.Context(), c.Param("id"), req.PartnerUserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model)
}

func (s *Server) download(c *gin.Context) {
	if s.downloads == nil {
		s.writeError(c, common.ErrorNotFound)
		return
	}

	key, err := s.downloads.VerifyToken(c.Query("token"))
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid or expired download token", common.ErrorForbidden))
		return
	}

	reader, size, err := s.downloads.Open(c.Request.Context(), key)
	if err != nil {
		s.writeError(c, common.ErrorNotFound)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, size, "application/octet-stream", reader, nil)
}
