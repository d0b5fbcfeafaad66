package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"blog-auth/internal/models"
	"blog-auth/internal/service"
	"blog-auth/internal/util"
)

type Controller struct {
	authService *service.AuthService
	userService *service.UserService
	rateLimiter *service.LoginRateLimiter
	cookies     *util.CookieConfig
	refreshTTL  int
	log         *zap.SugaredLogger
}

func NewController(
	authService *service.AuthService,
	userService *service.UserService,
	rateLimiter *service.LoginRateLimiter,
	cookies *util.CookieConfig,
	tokenCfg *util.TokenConfig,
	log *zap.SugaredLogger,
) *Controller {
	return &Controller{
		authService: authService,
		userService: userService,
		rateLimiter: rateLimiter,
		cookies:     cookies,
		refreshTTL:  int(tokenCfg.RefreshTTL.Seconds()),
		log:         log,
	}
}

// (POST /api/v1/auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	if err := c.rateLimiter.Allow(ctx.Request().Context(), req.Email); err != nil {
		return err
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.setRefreshCookie(ctx, pair.RefreshToken)
	return ctx.JSON(http.StatusOK, models.AuthResponse{Token: pair.AccessToken, ExpiresIn: pair.ExpiresIn})
}

// (POST /api/v1/auth/refresh). The refresh secret is read from the cookie
// only, never from the body.
func (c *Controller) Refresh(ctx echo.Context) error {
	raw := c.refreshCookieValue(ctx)
	if raw == "" {
		return service.ErrRefreshTokenInvalid
	}

	pair, err := c.authService.Refresh(ctx.Request().Context(), raw)
	if err != nil {
		return err
	}

	c.setRefreshCookie(ctx, pair.RefreshToken)
	return ctx.JSON(http.StatusOK, models.AuthResponse{Token: pair.AccessToken, ExpiresIn: pair.ExpiresIn})
}

// (POST /api/v1/auth/logout). Succeeds and clears the cookie whether or not
// a credential existed.
func (c *Controller) Logout(ctx echo.Context) error {
	if raw := c.refreshCookieValue(ctx); raw != "" {
		if err := c.authService.Logout(ctx.Request().Context(), raw); err != nil {
			return err
		}
	}

	c.clearRefreshCookie(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

// (POST /api/v1/auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, name and password are required")
	}

	user, err := c.userService.Register(ctx.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}

// (GET /api/v1/auth/me). Requires the bearer middleware.
func (c *Controller) Me(ctx echo.Context) error {
	subject, ok := ctx.Get(models.SubjectContextKey).(string)
	if !ok || subject == "" {
		return service.ErrTokenInvalid
	}

	user, err := c.userService.UserByEmail(ctx.Request().Context(), subject)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func (c *Controller) refreshCookieValue(ctx echo.Context) string {
	cookie, err := ctx.Cookie(c.cookies.Name)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			c.log.Warnw("failed to read refresh cookie", "error", err)
		}
		return ""
	}
	return cookie.Value
}

// setRefreshCookie overwrites the transport copy of the refresh secret:
// script-inaccessible, encrypted transport only (per config), same-site
// restricted, scoped to the auth path, max-age matching the refresh TTL.
func (c *Controller) setRefreshCookie(ctx echo.Context, raw string) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.cookies.Name,
		Value:    raw,
		Path:     c.cookies.Path,
		MaxAge:   c.refreshTTL,
		HttpOnly: true,
		Secure:   c.cookies.Secure,
		SameSite: c.cookies.SameSite,
	})
}

func (c *Controller) clearRefreshCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.cookies.Name,
		Value:    "",
		Path:     c.cookies.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cookies.Secure,
		SameSite: c.cookies.SameSite,
	})
}
