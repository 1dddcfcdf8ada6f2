package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// staticJSON is a payload marshalled once, served with a strong ETag.
type staticJSON struct {
	body []byte
	etag string
}

func newStaticJSON(payload interface{}) (staticJSON, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return staticJSON{}, err
	}

	sum := sha256.Sum256(b)

	return staticJSON{
		body: b,
		etag: `"` + hex.EncodeToString(sum[:16]) + `"`,
	}, nil
}

func (s staticJSON) serve(ctx *gin.Context, cacheControl string) {
	ctx.Header("ETag", s.etag)
	if cacheControl != "" {
		ctx.Header("Cache-Control", cacheControl)
	}

	if ifNoneMatchMatches(ctx.GetHeader("If-None-Match"), s.etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", s.body)
}

func ifNoneMatchMatches(headerValue, currentETag string) bool {
	if strings.TrimSpace(headerValue) == "" || strings.TrimSpace(currentETag) == "" {
		return false
	}

	if strings.TrimSpace(headerValue) == "*" {
		return true
	}

	current := normalizeETag(currentETag)

	for _, part := range strings.Split(headerValue, ",") {
		if normalizeETag(part) == current {
			return true
		}
	}

	return false
}

func normalizeETag(raw string) string {
	v := strings.TrimSpace(raw)

	// RFC allows weak validators like W/"abc".
	if strings.HasPrefix(v, "W/") {
		v = strings.TrimSpace(strings.TrimPrefix(v, "W/"))
	}

	return v
}
