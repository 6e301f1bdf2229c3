package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/i2clabs/fileserver/internal/server/services"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

type createUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	IsAdmin   bool   `json:"is_admin"`
	Privilege string `json:"privilege"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.IsAdmin, req.Privilege)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) profile(c *gin.Context) {
	p := principal(c)

	user, err := h.auth.GetUser(c.Request.Context(), p.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	IsAdmin   *bool   `json:"is_admin"`
	Privilege *string `json:"privilege"`
	IsActive  *bool   `json:"is_active"`
}

func (h *Handler) updateUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateUser(c.Request.Context(), userID, services.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
		Privilege: req.Privilege,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.auth.DeleteUser(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
