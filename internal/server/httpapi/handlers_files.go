package httpapi

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultShareHours applies when a share request names no validity.
const defaultShareHours = 24

func (h *Handler) uploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}

	var folderID *int64
	if v := c.PostForm("folder_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
			return
		}
		folderID = &id
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	mimetype := fileHeader.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = mime.TypeByExtension(filepath.Ext(fileHeader.Filename))
	}

	file, err := h.hierarchy.SaveFile(c.Request.Context(), principal(c), folderID, fileHeader.Filename, mimetype, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFileInfo(file, ""))
}

type createShareRequest struct {
	// ExpiresInHours zero means a non-expiring share and must be paired
	// with ConfirmNoExpiry; absent means the default validity.
	ExpiresInHours  *int `json:"expires_in_hours"`
	ConfirmNoExpiry bool `json:"confirm_no_expiry"`
}

func (h *Handler) createShare(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	req := createShareRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var validity *time.Duration
	switch {
	case req.ExpiresInHours == nil:
		d := defaultShareHours * time.Hour
		validity = &d
	case *req.ExpiresInHours != 0:
		d := time.Duration(*req.ExpiresInHours) * time.Hour
		validity = &d
	}

	file, err := h.share.CreateShare(c.Request.Context(), principal(c), fileID, validity, req.ConfirmNoExpiry)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"share_token": file.ShareToken,
		"expires_at":  file.ShareExpiry,
	})
}

func (h *Handler) revokeShare(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if err := h.share.RevokeShare(c.Request.Context(), principal(c), fileID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) previewFile(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	file, rc, err := h.hierarchy.OpenFile(c.Request.Context(), principal(c), fileID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Filename}))
	c.DataFromReader(http.StatusOK, file.Size, file.Mimetype, rc, nil)
}

// getShared serves a public share link. The default response is the file's
// metadata; ?download=true streams the content. No authentication applies.
func (h *Handler) getShared(c *gin.Context) {
	token := c.Param("share_token")

	if c.Query("download") == "true" {
		file, rc, err := h.share.OpenShared(c.Request.Context(), token)
		if err != nil {
			h.fail(c, err)
			return
		}
		defer rc.Close()

		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
		c.DataFromReader(http.StatusOK, file.Size, file.Mimetype, rc, nil)
		return
	}

	file, err := h.share.ResolveShare(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toSharedFileInfo(file))
}
