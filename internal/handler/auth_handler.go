package handler

import (
	"errors"
	"net/http"

	"eshop/internal/repository"
	auth "eshop/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	logoutUC   *auth.LogoutUsecase
	profileUC  *auth.ProfileUsecase
}

// DI
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	profileUC *auth.ProfileUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		logoutUC:   logoutUC,
		profileUC:  profileUC,
	}
}

type SignupRequest struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// ログイン直前のゲストトークン（無ければcookieから拾う）
	GuestSessionID string `json:"guest_session_id"`
}

type LogoutRequest struct {
	SessionToken string `json:"session_token"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/signup", h.signup)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.POST("/logout/all", h.logoutAll)
	g.GET("/me", h.me)
}

func (h *AuthHandler) signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Address1:    req.Address1,
		Address2:    req.Address2,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
		case errors.Is(err, auth.ErrInvalidInput),
			errors.Is(err, auth.ErrInvalidEmailFormat),
			errors.Is(err, auth.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Required fields are missing"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Account created successfully",
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email and password are required"})
	}

	// マージ対象のゲストトークンはbody優先、無ければcookie
	guestToken := req.GuestSessionID
	if guestToken == "" {
		guestToken = guestTokenFromCookie(c)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		GuestToken: guestToken,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"user":       out.User,
		"token":      out.SessionToken,
		"expires_at": out.ExpiresAt,
	})
}

func (h *AuthHandler) logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.logoutUC.Execute(c.Request().Context(), req.SessionToken); err != nil {
		if errors.Is(err, auth.ErrMissingSessionToken) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Session token required"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// Bearerで認証された本人のセッションを全部消す
func (h *AuthHandler) logoutAll(c echo.Context) error {
	id := resolveIdentity(c)
	if !id.IsAuthenticated() {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.logoutUC.ExecuteAll(c.Request().Context(), id.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out from all devices",
	})
}

func (h *AuthHandler) me(c echo.Context) error {
	id := resolveIdentity(c)
	if !id.IsAuthenticated() {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.profileUC.Get(c.Request().Context(), id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}
