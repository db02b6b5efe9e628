// Package buildinfo serves build metadata and a liveness probe.
package buildinfo

import (
	"context"
	"time"

	"github.com/bronystylecrazy/skyline/build"
	"github.com/bronystylecrazy/skyline/caching/rd"
	"github.com/gofiber/fiber/v3"
)

const (
	DefaultPath       = "/api/build"
	DefaultHealthPath = "/healthz"
	pingTimeout       = 2 * time.Second
)

type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	Mode      string `json:"mode"`
}

type Health struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

type Option func(*Handler)

func WithPath(path string) Option {
	return func(h *Handler) { h.path = path }
}

type Handler struct {
	path  string
	redis rd.Pinger
}

// NewHandler reports the redis status on the health route. The service stays
// healthy while redis is down since sessions and caching degrade instead of
// failing.
func NewHandler(redis rd.Pinger, opts ...Option) *Handler {
	h := &Handler{path: DefaultPath, redis: redis}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Handle(r fiber.Router) {
	r.Get(h.path, h.Info)
	r.Get(DefaultHealthPath, h.Health)
}

func (h *Handler) Info(c fiber.Ctx) error {
	return c.JSON(Info{
		Name:      build.Name,
		Version:   build.Version,
		Commit:    build.Commit,
		BuildDate: build.BuildDate,
		Mode:      string(build.Mode),
	})
}

func (h *Handler) Health(c fiber.Ctx) error {
	out := Health{Status: "ok", Redis: "up"}
	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()
	if h.redis == nil || h.redis.Ping(ctx).Err() != nil {
		out.Redis = "down"
	}
	return c.JSON(out)
}
