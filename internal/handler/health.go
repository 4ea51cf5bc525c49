package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Health pings every database and Redis concurrently. Any failure turns the
// response into a 503; credentials and driver messages are never exposed.
func Health(dbs map[string]*gorm.DB, redisPing func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		var mu sync.Mutex
		estado := make(map[string]string, len(dbs)+1)
		set := func(name string, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				estado[name] = "error"
				return
			}
			estado[name] = "connected"
		}

		var g errgroup.Group
		for name, db := range dbs {
			name, db := name, db
			g.Go(func() error {
				sqlDB, err := db.DB()
				if err == nil {
					err = sqlDB.PingContext(ctx)
				}
				set(name, err)
				return err
			})
		}
		g.Go(func() error {
			err := redisPing(ctx)
			set("redis", err)
			return err
		})

		status := http.StatusOK
		if g.Wait() != nil {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": status == http.StatusOK, "checks": estado})
	}
}
