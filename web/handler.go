package web

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
)

var HandlersGroupName = "skyline.handlers"

type Handler interface {
	Handle(r fiber.Router)
}

// AsHandler annotates a constructor so its result joins the handler group.
func AsHandler(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Handler)),
		fx.ResultTags(`group:"`+HandlersGroupName+`"`),
	)
}

type setupHandlersIn struct {
	fx.In
	App        *fiber.App
	Middleware *ZapMiddleware
	Handlers   []Handler `group:"skyline.handlers"`
}

// SetupHandlers mounts the access log first, then every handler in
// registration order.
func SetupHandlers(in setupHandlersIn) {
	in.Middleware.Handle(in.App)
	for _, h := range in.Handlers {
		h.Handle(in.App)
	}
}
