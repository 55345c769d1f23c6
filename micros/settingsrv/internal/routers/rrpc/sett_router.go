package rrpc

import (
	"github.com/lesismal/arpc"
	"github.com/sweemingdow/sdconv/external/erpc/rpcsett"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/handlers/hrpc"
)

func ConfigureSettRouter(srv *arpc.Server, handler *hrpc.SettRpcHandler) {
	srv.Handler.Handle(rpcsett.SettViewMethod, handler.HandleSettView)
	srv.Handler.Handle(rpcsett.MembershipViewMethod, handler.HandleMembershipView)
}
