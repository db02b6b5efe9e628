// Package account exposes sign-in, sign-out and the signed-in user's profile
// over HTTP.
package account

import (
	"context"
	"errors"

	"github.com/bronystylecrazy/skyline/caching/secure"
	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/session"
	"github.com/bronystylecrazy/skyline/user"
	"github.com/bronystylecrazy/skyline/web"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const (
	profileKey  = "profile"
	cacheHeader = "X-Cache"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, email, name string) (*user.User, error)
	UpdateName(ctx context.Context, id, name string) (*user.User, error)
}

type SignInRequest struct {
	Email string `json:"email" validate:"required,email,max=320"`
	Name  string `json:"name" validate:"max=200"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type Handler struct {
	users     UserStore
	sessions  *session.Manager
	cache     *secure.Facade
	validator *web.Validator
	sink      *log.Sink
}

func NewHandler(users UserStore, sessions *session.Manager, cache *secure.Facade, validator *web.Validator, sink *log.Sink) *Handler {
	return &Handler{
		users:     users,
		sessions:  sessions,
		cache:     cache,
		validator: validator,
		sink:      sink,
	}
}

func (h *Handler) Handle(r fiber.Router) {
	auth := r.Group("/auth")
	auth.Post("/sign-in", h.SignIn)
	auth.Post("/sign-out", h.SignOut)
	auth.Get("/session", h.Session)

	r.Get("/me", h.sessions.Require(), h.Profile)
	r.Put("/me", h.sessions.Require(), h.UpdateProfile)
}

// SignIn finds or creates the user for the submitted address and starts a
// session for them.
func (h *Handler) SignIn(c fiber.Ctx) error {
	var req SignInRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return web.BadRequest(c, err)
	}

	ctx := c.Context()
	u, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		h.sink.Error("find user by email", err)
		return internalError(c)
	}
	if u == nil {
		if u, err = h.users.Create(ctx, req.Email, req.Name); err != nil {
			h.sink.Error("create user", err)
			return internalError(c)
		}
	}

	if !h.sessions.SignIn(c, u.ID) {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) SignOut(c fiber.Ctx) error {
	h.sessions.SignOut(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Session(c fiber.Ctx) error {
	s := h.sessions.GetSession(c)
	if s == nil {
		return unauthorized(c)
	}
	return c.JSON(s)
}

func (h *Handler) Profile(c fiber.Ctx) error {
	s := h.sessions.GetSession(c)
	if s == nil {
		return unauthorized(c)
	}

	res := secure.CacheForUser(c.Context(), h.cache, s.UserID, profileKey, func(ctx context.Context) (user.User, error) {
		u, err := h.users.FindByID(ctx, s.UserID)
		if err != nil {
			return user.User{}, err
		}
		return *u, nil
	})
	if !res.Success() {
		if errors.Is(res.Err, user.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(web.NewError("NOT_FOUND", "user not found"))
		}
		h.sink.Error("load profile", res.Err, zap.String("user_id", s.UserID))
		return internalError(c)
	}

	if res.FromCache {
		c.Set(cacheHeader, "HIT")
	} else {
		c.Set(cacheHeader, "MISS")
	}
	return c.JSON(res.Data)
}

// UpdateProfile renames the signed-in user and drops every cache entry
// scoped to them.
func (h *Handler) UpdateProfile(c fiber.Ctx) error {
	s := h.sessions.GetSession(c)
	if s == nil {
		return unauthorized(c)
	}

	var req UpdateProfileRequest
	if err := h.validator.Bind(c, &req); err != nil {
		return web.BadRequest(c, err)
	}

	ctx := c.Context()
	u, err := h.users.UpdateName(ctx, s.UserID, req.Name)
	if errors.Is(err, user.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(web.NewError("NOT_FOUND", "user not found"))
	}
	if err != nil {
		h.sink.Error("update profile", err, zap.String("user_id", s.UserID))
		return internalError(c)
	}

	h.cache.Cache().InvalidateUserCaches(ctx, s.UserID)
	return c.JSON(u)
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(web.NewError("UNAUTHORIZED", "unauthorized"))
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(web.NewError("INTERNAL_SERVER_ERROR", "internal server error"))
}
