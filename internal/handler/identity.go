package handler

import (
	"net/http"

	"eshop/internal/domain/model"
	"eshop/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	guestCookieName = "eshop_session_id"

	// 30日のローリング期限
	guestCookieMaxAge = 60 * 60 * 24 * 30
)

// リクエストからIdentityを決める。
// ログイン済みならUserID、そうでなければゲストトークン（cookieが無い・壊れていれば発行し直す）。
func resolveIdentity(c echo.Context) model.Identity {
	stale, _ := c.Get(middleware.CtxTokenStaleKey).(bool)

	if uid, ok := c.Get(middleware.CtxUserIDKey).(int64); ok && uid > 0 {
		return model.Identity{UserID: uid}
	}

	token := guestTokenFromCookie(c)
	if token == "" {
		token = uuid.NewString()
	}

	// ゲストのレスポンスには毎回cookieを付け直す（ローリング期限）
	setGuestCookie(c, token)

	return model.Identity{GuestToken: token, TokenStale: stale}
}

// cookieの値がUUIDの形でなければ無効扱い。
// ストレージに存在するかまでは見ない（カートは遅延作成されるため）。
func guestTokenFromCookie(c echo.Context) string {
	cookie, err := c.Cookie(guestCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// HttpOnlyにしない（フロントがJSから読む）。暗号化もしない。
func setGuestCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     guestCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   guestCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
		Secure:   false,
	})
}
