package middleware

import (
	"crypto/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid"

	dfctx "github.com/yeisme/dontfile/pkg/context"
)

// HeaderRequestID 请求 ID 头.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen 透传客户端请求 ID 的长度上限.
const maxRequestIDLen = 64

// RequestIDMiddleware 沿用客户端传入的请求 ID，否则生成 ULID，并写回响应头.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = newRequestID()
		}

		c.Header(HeaderRequestID, id)
		c.Set(HeaderRequestID, id)
		c.Request = c.Request.WithContext(dfctx.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

func newRequestID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
