package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i2clabs/fileserver/internal/storage"
)

// Free-space thresholds, in percent, below which the health status degrades.
const (
	storageCriticalPct = 10
	storageWarningPct  = 20
)

type spaceInfo struct {
	Bytes     uint64 `json:"bytes"`
	Formatted string `json:"formatted"`
}

type spacePctInfo struct {
	spaceInfo
	Percentage float64 `json:"percentage"`
}

type healthStatus struct {
	IsCritical bool   `json:"is_critical"`
	IsWarning  bool   `json:"is_warning"`
	Status     string `json:"status"`
}

type storageStatusResponse struct {
	TotalSpace   spaceInfo    `json:"total_space"`
	UsedSpace    spacePctInfo `json:"used_space"`
	FreeSpace    spacePctInfo `json:"free_space"`
	HealthStatus healthStatus `json:"health_status"`
}

func (h *Handler) storageUsage(c *gin.Context) {
	usage, err := h.system.StorageUsage(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStorageStatus(usage))
}

func toStorageStatus(u storage.DiskUsage) storageStatusResponse {
	usedPct := percentage(u.UsedBytes, u.TotalBytes)
	freePct := percentage(u.FreeBytes, u.TotalBytes)

	status := "healthy"
	switch {
	case freePct < storageCriticalPct:
		status = "critical"
	case freePct < storageWarningPct:
		status = "warning"
	}

	return storageStatusResponse{
		TotalSpace: spaceInfo{Bytes: u.TotalBytes, Formatted: formatSize(u.TotalBytes)},
		UsedSpace: spacePctInfo{
			spaceInfo:  spaceInfo{Bytes: u.UsedBytes, Formatted: formatSize(u.UsedBytes)},
			Percentage: usedPct,
		},
		FreeSpace: spacePctInfo{
			spaceInfo:  spaceInfo{Bytes: u.FreeBytes, Formatted: formatSize(u.FreeBytes)},
			Percentage: freePct,
		},
		HealthStatus: healthStatus{
			IsCritical: freePct < storageCriticalPct,
			IsWarning:  freePct < storageWarningPct,
			Status:     status,
		},
	}
}

func percentage(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func formatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
