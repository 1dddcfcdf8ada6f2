package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const MsgBodyTooLarge = "La solicitud es demasiado grande."

// MaxBodyBytes answers 413 when the declared length is over the limit and
// otherwise wraps the body so chunked uploads are cut off while decoding.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Body == nil || ctx.Request.Body == http.NoBody {
			ctx.Next()
			return
		}

		if ctx.Request.ContentLength > limit {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": MsgBodyTooLarge})
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
		ctx.Next()
	}
}
