package middlewares

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

const MsgUnsupportedMedia = "Content-Type must be application/json"

// RequireJSON is mounted on routes that only ever accept a JSON body, so it
// checks every request regardless of method.
func RequireJSON() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		mt, _, err := mime.ParseMediaType(ctx.GetHeader("Content-Type"))
		if err != nil || mt != gin.MIMEJSON {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": MsgUnsupportedMedia})
			return
		}

		ctx.Next()
	}
}
