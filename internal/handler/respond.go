package handler

import (
	"log/slog"
	"net/http"

	"bizhood/internal/pkg"

	"github.com/gin-gonic/gin"
)

// fail 统一错误出口：已知业务错误映射状态码，内部错误不外泄细节
func fail(c *gin.Context, err error) {
	status := pkg.Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"msg": pkg.Public(err)})
}
