package rhttp

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hhttp"
)

func ConfigSettRouter(fa *fiber.App, handler *hhttp.SettHttpHandler) {
	settGrp := fa.Group("/sett")
	settGrp.
		Get("/view", handler.HandleSettView).
		Get("/members", handler.HandleSettMembers).
		Post("/close", handler.HandleCloseSett).
		Post("/mute", handler.HandleUpdateMute).
		Post("/disappear", handler.HandleUpdateDisappear).
		Post("/color", handler.HandleUpdateColor).
		Post("/size_class", handler.HandleSizeClassChanged)
}
