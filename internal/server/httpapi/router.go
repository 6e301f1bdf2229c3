package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/i2clabs/fileserver/internal/server/config"
)

// requestTimeout bounds every handler, uploads and downloads included.
const requestTimeout = 60 * time.Second

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), withTimeout(requestTimeout))

	if cfg.EnableCORS {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			MaxAge:           12 * time.Hour,
			AllowCredentials: false,
		}))
	}

	api := r.Group("/api/v1")

	user := api.Group("/user")
	{
		user.POST("/login", h.login)
		user.POST("/create_user", h.createUser)
		// Public share resolution needs no token.
		user.GET("/shared/:share_token", h.getShared)

		protected := user.Group("", h.requireAuth())
		protected.GET("/profile", h.profile)

		admin := user.Group("", h.requireAuth(), h.requireAdmin())
		admin.GET("/list", h.listUsers)
		admin.PUT("/update/:user_id", h.updateUser)
		admin.DELETE("/delete/:user_id", h.deleteUser)
	}

	folders := api.Group("/folders", h.requireAuth())
	{
		folders.POST("/create", h.createFolder)
		folders.POST("/list_directory", h.listDirectory)
	}

	files := api.Group("/files", h.requireAuth())
	{
		files.POST("/upload", h.uploadFile)
		files.POST("/:file_id/share", h.createShare)
		files.DELETE("/:file_id/share", h.revokeShare)
		files.GET("/preview/:file_id", h.previewFile)
	}

	items := api.Group("/items", h.requireAuth())
	{
		items.DELETE("/delete", h.deleteItem)
		items.PUT("/move", h.moveItem)
		items.POST("/copy", h.copyItem)
		items.PUT("/rename", h.renameItem)
	}

	system := api.Group("/system", h.requireAuth())
	{
		system.GET("/storage", h.storageUsage)
	}

	return r
}
