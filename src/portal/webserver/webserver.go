package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/civic-stack/grievance-portal/src/portal/config"
	"github.com/civic-stack/grievance-portal/src/portal/media"
	"github.com/civic-stack/grievance-portal/src/portal/notify"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
)

func New(cfg config.Config, store storage.Storage, rdb *redis.Client, notifier notify.Notifier, mediaStore media.Store) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, store, rdb, notifier, mediaStore)
	return g
}
