// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authy/authy/internal/account"
	"github.com/authy/authy/internal/observability"
	"github.com/authy/authy/pkg/errutil"
)

// Handler serves the /api/user routes.
type Handler struct {
	svc     *account.Service
	logger  *slog.Logger
	metrics *observability.Metrics
}

type registerRequest struct {
	Name     *string `json:"name" binding:"required"`
	Email    *string `json:"email" binding:"required"`
	Password *string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    *string `json:"email" binding:"required"`
	Password *string `json:"password"`
}

type updateRequest struct {
	Email    *string `json:"email" binding:"required"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// authenticate runs the guard. On failure it writes the response and
// returns false; the caller must return without doing any work.
func (h *Handler) authenticate(c *gin.Context) (account.APIKey, bool) {
	key, err := h.svc.Authenticate(c.Request.Context(), c.Request.Header)
	if err != nil {
		h.metrics.RecordKeyCheck(keyOutcome(err))
		h.fail(c, err)
		return account.APIKey{}, false
	}
	h.metrics.RecordKeyCheck("accepted")
	return key, true
}

// bind decodes the JSON body. Missing required fields and malformed JSON are 400.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.DebugContext(c.Request.Context(), "request body rejected", "error", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, msgBadBody)
		return false
	}
	return true
}

// fail writes the public form of err. Server errors are logged in full.
func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := classify(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		errutil.LogErrorContext(ctx, h.logger, "request failed", err, "route", c.FullPath())
	} else {
		h.logger.DebugContext(ctx, "request rejected",
			"route", c.FullPath(),
			"status", status,
			"code", errutil.ErrorCode(err))
	}
	c.AbortWithStatusJSON(status, msg)
}

func (h *Handler) issueKey(c *gin.Context) {
	if _, err := h.svc.IssueKey(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.RecordKeyIssued()
	c.JSON(http.StatusOK, msgKeyIssued)
}

func (h *Handler) revokeKey(c *gin.Context) {
	key, ok := h.authenticate(c)
	if !ok {
		return
	}

	status, err := h.svc.RevokeKey(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.RecordKeyRevoked(status.String())
	if status != account.Revoked {
		c.JSON(http.StatusNotFound, msgInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, msgLogout)
}

func (h *Handler) login(c *gin.Context) {
	if _, ok := h.authenticate(c); !ok {
		return
	}
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}

	email, err := account.NewEmail(*req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	attempt := account.LoginAttempt{Email: email}
	if req.Password != nil {
		password, err := account.NewPassword(*req.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		attempt.Password = &password
	}

	user, err := h.svc.Login(c.Request.Context(), attempt)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) register(c *gin.Context) {
	if _, ok := h.authenticate(c); !ok {
		return
	}
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}

	candidate, err := account.NewUser(*req.Name, *req.Email, *req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), account.Registration{
		Name:     candidate.Name,
		Email:    candidate.Email,
		Password: candidate.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) update(c *gin.Context) {
	if _, ok := h.authenticate(c); !ok {
		return
	}
	var req updateRequest
	if !h.bind(c, &req) {
		return
	}

	email, err := account.NewEmail(*req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	upd := account.UserUpdate{Email: email}
	if req.Name != nil {
		name, err := account.NewName(*req.Name)
		if err != nil {
			h.fail(c, err)
			return
		}
		upd.Name = &name
	}
	if req.Password != nil {
		password, err := account.NewPassword(*req.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		upd.Password = &password
	}

	user, err := h.svc.Update(c.Request.Context(), upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
