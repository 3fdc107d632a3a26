package auth

import (
	"context"
	"errors"
	"strconv"

	authsvc "energy-market-backend/internal/application/auth"
	"energy-market-backend/internal/middleware"
	"energy-market-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints. Rdb may be nil, in which
// case login succeeds without a persistent session.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Register POST /api/register: 201 {message}.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req authsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, authsvc.ErrMissingFields.Error(), fiber.StatusBadRequest, nil)
	}
	if _, err := h.Service.Register(c.UserContext(), req); err != nil {
		switch {
		case errors.Is(err, authsvc.ErrMissingFields),
			errors.Is(err, authsvc.ErrInvalidEmail),
			errors.Is(err, authsvc.ErrInvalidRole),
			errors.Is(err, authsvc.ErrUserExists):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Error registering user", fiber.StatusInternalServerError, err)
		}
	}
	return response.Message(c, fiber.StatusCreated, "User registered successfully")
}

// Login POST /api/login: verifies credentials, starts a session and returns {message, role}.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, authsvc.ErrMissingFields.Error(), fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Login(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrMissingFields):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrUserNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Error logging in", fiber.StatusInternalServerError, err)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID: strconv.FormatUint(uint64(user.ID), 10),
		Email:  user.Email,
		Role:   user.Role,
	})
	c.Cookie(middleware.SessionCookie(h.Config, sessionID))

	log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return c.JSON(fiber.Map{"message": "Login successful", "role": user.Role})
}

// Me GET /api/me: the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}
	return c.JSON(fiber.Map{"user": user})
}

// Logout POST /api/logout: deletes the session and clears the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sessionID := middleware.GetSessionID(c); sessionID != "" && h.Rdb != nil {
		if err := h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sessionID).Err(); err != nil {
			log.Warn().Err(err).Msg("session delete failed")
		}
	}
	middleware.DestroySession(c)
	c.Cookie(middleware.SessionCookie(h.Config, ""))
	return response.Message(c, fiber.StatusOK, "Logged out successfully")
}
