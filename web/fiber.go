package web

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/bronystylecrazy/skyline/build"
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewFiberApp(config Config) (*fiber.App, error) {
	cfg := config.withDefaults()
	bodyLimit, err := ParseBodyLimit(cfg.BodyLimit)
	if err != nil {
		return nil, fmt.Errorf("web: body_limit: %w", err)
	}
	return fiber.New(fiber.Config{
		AppName:      BuildAppName(cfg.Name),
		BodyLimit:    bodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: ErrorHandler,
	}), nil
}

func BuildAppName(name string) string {
	return fmt.Sprintf("%s (%s %s %s)", name, build.Version, build.Commit, build.BuildDate)
}

func ParseAddr(config Config) string {
	cfg := config.withDefaults()
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

func ParseBodyLimit(v string) (int, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return fiber.DefaultBodyLimit, nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > uint64(math.MaxInt) {
		return 0, fmt.Errorf("body limit overflows int")
	}

	return int(n), nil
}

// ErrorHandler renders handler errors as Error bodies.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(NewError(statusCode(code), message))
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		text = http.StatusText(http.StatusInternalServerError)
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func RegisterFiberApp(lc fx.Lifecycle, app *fiber.App, logger *zap.Logger, config Config) {
	addr := ParseAddr(config)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					logger.Error("failed to start fiber app", zap.Error(err))
				}
			}()
			logger.Info("http server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
