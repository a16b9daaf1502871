package middleware

import (
	"net/http"
	"strings"

	ctxutil "Inkwell/pkg/context"
	"Inkwell/pkg/jwt"
	"Inkwell/pkg/response"

	"github.com/gin-gonic/gin"
)

func bearer(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		token, ok := bearer(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TypeAccess, token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(ctxutil.CtxUserID, claims.UserID)

		c.Next()
	}
}

// OptionalAuth 有合法 token 时注入用户，否则按匿名访问放行
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c); ok {
			if claims, err := jwt.ParseToken(secret, jwt.TypeAccess, token); err == nil {
				c.Set(ctxutil.CtxUserID, claims.UserID)
			}
		}
		c.Next()
	}
}
