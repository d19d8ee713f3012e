package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/middleware"
	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
)

// Sessions is the session service as seen by the auth endpoints.
type Sessions interface {
	SignUp(ctx context.Context, in service.SignUpInput) (*service.AuthResult, error)
	SignIn(p model.Principal) (*service.AuthResult, error)
	CompleteOnboarding(ctx context.Context, userID string, o model.Onboarding) (*service.OnboardingResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	ExtractRefreshToken(header string) (string, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Sessions Sessions
	Log      *logrus.Logger
	// SecureCookies marks the refresh cookie Secure; enabled in production.
	SecureCookies bool
}

func NewAuthHandler(s Sessions, log *logrus.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{Sessions: s, Log: log, SecureCookies: secureCookies}
}

// ----- DTOs -----

type signUpReq struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
}

type onboardingReq struct {
	FirstName             string    `json:"firstName" validate:"required"`
	LastName              string    `json:"lastName" validate:"required"`
	PhoneNumber           string    `json:"phoneNumber" validate:"required"`
	NationalID            string    `json:"nationalId" validate:"required"`
	DateOfBirth           time.Time `json:"dateOfBirth" validate:"required"`
	Address               string    `json:"address" validate:"required"`
	City                  string    `json:"city" validate:"required"`
	Province              string    `json:"province" validate:"required"`
	GNDivision            string    `json:"gnDivision"`
	DivisionalSecretariat string    `json:"divisionalSecretariat"`
	PostalCode            string    `json:"postalCode" validate:"required"`
}

// SignUp creates an end user and returns a signed-in session (201).
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Sessions.SignUp(ctx, service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return httpError(h.Log, err)
	}
	h.setRefreshCookie(c, res.RefreshToken, res.RefreshTokenExpiresIn)
	return c.JSON(http.StatusCreated, res)
}

// SignIn issues tokens for the principal authenticated by
// middleware.CredentialGuard.
func (h *AuthHandler) SignIn(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	res, err := h.Sessions.SignIn(p)
	if err != nil {
		return httpError(h.Log, err)
	}
	h.setRefreshCookie(c, res.RefreshToken, res.RefreshTokenExpiresIn)
	return c.JSON(http.StatusOK, res)
}

// CompleteOnboarding stores the profile of ?id= (the caller unless staff).
func (h *AuthHandler) CompleteOnboarding(c echo.Context) error {
	id, err := actingUser(c, c.QueryParam("id"))
	if err != nil {
		return err
	}
	var req onboardingReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Sessions.CompleteOnboarding(ctx, id, model.Onboarding{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		PhoneNumber:           req.PhoneNumber,
		NationalID:            req.NationalID,
		DateOfBirth:           req.DateOfBirth,
		Address:               req.Address,
		City:                  req.City,
		Province:              req.Province,
		GNDivision:            req.GNDivision,
		DivisionalSecretariat: req.DivisionalSecretariat,
		PostalCode:            req.PostalCode,
	})
	if err != nil {
		return httpError(h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Refresh reads the refreshToken cookie and returns a rotated token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw, err := h.Sessions.ExtractRefreshToken(c.Request().Header.Get(echo.HeaderCookie))
	if err != nil {
		return httpError(h.Log, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pair, err := h.Sessions.RefreshAccessToken(ctx, raw)
	if err != nil {
		return httpError(h.Log, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshTokenExpiresIn)
	return c.JSON(http.StatusOK, pair)
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": p, "role": p.EffectiveRole()})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     service.RefreshCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
