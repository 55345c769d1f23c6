package routebinder

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lesismal/arpc"
)

// AppRouterBinder 服务把自己的http/rpc路由挂到server上
type AppRouterBinder interface {
	BindFiber(fa *fiber.App)

	BindArpc(srv *arpc.Server)
}
