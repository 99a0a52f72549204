package middleware

import (
	"strings"
	"time"

	"eshop/internal/repository"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey     = "user_id"     // int64
	CtxTokenStaleKey = "token_stale" // bool

	// フロントが古いトークンを捨てられるように返すヘッダ
	HeaderTokenStatus = "X-Auth-Token-Status"
)

// Bearerトークンの任意認証。
// トークン無し→ゲストとして続行。有効→user_idをcontextへ。
// 不明/期限切れ→401にはせず、ゲストとして続行しつつヘッダで知らせる。
func OptionalAuth(sessions repository.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}

			session, err := sessions.FindByToken(c.Request().Context(), token)
			if err == repository.ErrSessionNotFound {
				c.Response().Header().Set(HeaderTokenStatus, "Invalid")
				c.Set(CtxTokenStaleKey, true)
				return next(c)
			}
			if err != nil {
				// 一時的な照合失敗。トークンが無効と確定したわけではないので
				// 捨てさせず（staleにしない）、リクエストも落とさない。
				return next(c)
			}

			if session.IsExpired(time.Now()) {
				c.Response().Header().Set(HeaderTokenStatus, "Expired")
				c.Set(CtxTokenStaleKey, true)
				return next(c)
			}

			c.Set(CtxUserIDKey, session.UserID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return ""
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
