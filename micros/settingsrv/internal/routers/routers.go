package routers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lesismal/arpc"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hhttp"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hrpc"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/routers/rhttp"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/routers/rrpc"
	"github.com/sweemingdow/sdconv/pkg/routebinder"
)

type settServerRouteBinder struct {
	settHttpHandler *hhttp.SettHttpHandler
	settRpcHandler  *hrpc.SettRpcHandler
}

func (ssr *settServerRouteBinder) BindFiber(fa *fiber.App) {
	rhttp.ConfigSettRouter(fa, ssr.settHttpHandler)
}

func (ssr *settServerRouteBinder) BindArpc(srv *arpc.Server) {
	rrpc.ConfigureSettRouter(srv, ssr.settRpcHandler)
}

func NewSettServerRouteBinder(settHttpHandler *hhttp.SettHttpHandler, settRpcHandler *hrpc.SettRpcHandler) routebinder.AppRouterBinder {
	return &settServerRouteBinder{
		settHttpHandler: settHttpHandler,
		settRpcHandler:  settRpcHandler,
	}
}
