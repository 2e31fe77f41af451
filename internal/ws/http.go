package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/santase/internal/game"
)

// Routes registers the REST surface next to the socket endpoint. The admin
// listing is only mounted when credentials are configured.
func (srv *Server) Routes(r *gin.Engine, adminUser, adminPass string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC(), "rooms": srv.RM.Len()})
	})

	r.POST("/api/rooms", func(c *gin.Context) {
		code, hostSecret, err := srv.RM.CreateRoom()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"code": code, "hostSecret": hostSecret})
	})

	r.GET("/api/rooms/:code", func(c *gin.Context) {
		sum, err := srv.RM.Summary(c.Param("code"))
		if err != nil {
			httpError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})

	r.DELETE("/api/rooms/:code", func(c *gin.Context) {
		if err := srv.RM.DeleteRoom(c.Param("code"), c.GetHeader("X-Host-Secret")); err != nil {
			httpError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	if adminUser != "" && adminPass != "" {
		auth := gin.BasicAuth(gin.Accounts{adminUser: adminPass})
		r.GET("/api/admin/rooms", auth, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"rooms": srv.RM.List()})
		})
	}
}

func httpError(c *gin.Context, err error) {
	code, message := errorCode(err)
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrNotHost):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": message, "code": code})
}
