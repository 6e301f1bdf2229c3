package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createFolderRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parent_id"`
}

func (h *Handler) createFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.hierarchy.CreateFolder(c.Request.Context(), principal(c), req.ParentID, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"folder_id": folder.ID,
		"name":      folder.Name,
		"parent_id": folder.ParentID,
		"owner_id":  folder.OwnerID,
	})
}

type listDirectoryRequest struct {
	// FolderID nil lists the caller's root.
	FolderID *int64 `json:"folder_id"`
}

func (h *Handler) listDirectory(c *gin.Context) {
	var req listDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.hierarchy.ListChildren(c.Request.Context(), principal(c), req.FolderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toDirectoryListing(listing))
}
