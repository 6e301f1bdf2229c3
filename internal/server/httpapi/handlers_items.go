package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i2clabs/fileserver/internal/server/models"
)

// Item kinds accepted by the /items endpoints.
const (
	itemFile   = "file"
	itemFolder = "folder"
)

type deleteItemRequest struct {
	ItemType string `json:"item_type" binding:"required,oneof=file folder"`
	ItemID   int64  `json:"item_id" binding:"required"`
	// Recursive applies to folders only: without it, deleting a non-empty
	// folder is refused.
	Recursive bool `json:"recursive"`
}

func (h *Handler) deleteItem(c *gin.Context) {
	var req deleteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.ItemType {
	case itemFile:
		err = h.hierarchy.DeleteFile(c.Request.Context(), principal(c), req.ItemID)
	case itemFolder:
		mode := models.DeleteRejectIfNonEmpty
		if req.Recursive {
			mode = models.DeleteRecursive
		}
		err = h.hierarchy.DeleteFolder(c.Request.Context(), principal(c), req.ItemID, mode)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type moveItemRequest struct {
	ItemType string `json:"item_type" binding:"required,oneof=file folder"`
	ItemID   int64  `json:"item_id" binding:"required"`
	// DestinationFolderID null moves the item to the owner's root.
	DestinationFolderID *int64 `json:"destination_folder_id"`
}

func (h *Handler) moveItem(c *gin.Context) {
	var req moveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.ItemType {
	case itemFile:
		err = h.hierarchy.MoveFile(c.Request.Context(), principal(c), req.ItemID, req.DestinationFolderID)
	case itemFolder:
		err = h.hierarchy.MoveFolder(c.Request.Context(), principal(c), req.ItemID, req.DestinationFolderID)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type copyItemRequest struct {
	ItemType string `json:"item_type" binding:"required,oneof=file folder"`
	ItemID   int64  `json:"item_id" binding:"required"`
	// DestinationFolderID null copies into the owner's root.
	DestinationFolderID *int64 `json:"destination_folder_id"`
}

func (h *Handler) copyItem(c *gin.Context) {
	var req copyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.ItemType {
	case itemFile:
		file, err := h.hierarchy.CopyFile(c.Request.Context(), principal(c), req.ItemID, req.DestinationFolderID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, toFileInfo(file, ""))
	case itemFolder:
		folder, err := h.hierarchy.CopyFolder(c.Request.Context(), principal(c), req.ItemID, req.DestinationFolderID)
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
}

type renameItemRequest struct {
	ItemType string `json:"item_type" binding:"required,oneof=file folder"`
	ItemID   int64  `json:"item_id" binding:"required"`
	NewName  string `json:"new_name" binding:"required"`
}

func (h *Handler) renameItem(c *gin.Context) {
	var req renameItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.ItemType {
	case itemFile:
		err = h.hierarchy.RenameFile(c.Request.Context(), principal(c), req.ItemID, req.NewName)
	case itemFolder:
		err = h.hierarchy.RenameFolder(c.Request.Context(), principal(c), req.ItemID, req.NewName)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
