package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdfmerge/session"
)

// Config holds application configuration
type Config struct {
	Port        string
	MaxFileSize int64
}

func SetupRoutes(r *gin.Engine, config *Config, sess *session.Session, logger *logrus.Logger) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.GET("/files", func(c *gin.Context) { HandleListFiles(c, sess) })
		apiGroup.POST("/files", func(c *gin.Context) { HandleUpload(c, config, sess, logger) })
		apiGroup.DELETE("/files", func(c *gin.Context) { HandleClear(c, sess) })
		apiGroup.DELETE("/files/:index", func(c *gin.Context) { HandleRemove(c, sess) })
		apiGroup.POST("/files/move", func(c *gin.Context) { HandleMove(c, sess) })
		apiGroup.GET("/files/:index/pages", func(c *gin.Context) { HandlePageCount(c, sess) })
		apiGroup.PUT("/selection/:index", func(c *gin.Context) { HandleSelect(c, sess) })
		apiGroup.DELETE("/selection", func(c *gin.Context) { HandleDeselect(c, sess) })
		apiGroup.POST("/merge", func(c *gin.Context) { HandleMerge(c, sess, logger) })
		apiGroup.POST("/split", func(c *gin.Context) { HandleSplit(c, sess, logger) })
	}
}
