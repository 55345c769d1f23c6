package hrpc

import (
	"context"
	"errors"
	"time"

	"github.com/lesismal/arpc"
	"github.com/sweemingdow/sdconv/external/erpc/rpcsett"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
)

type SettRpcHandler struct {
	sm core.SettManager
}

func NewSettRpcHandler(sm core.SettManager) *SettRpcHandler {
	return &SettRpcHandler{
		sm: sm,
	}
}

func (srh *SettRpcHandler) HandleSettView(c *arpc.Context) {
	lg := mylog.AppLogger()

	var req rpcsett.SettViewReq
	if err := c.Bind(&req); err != nil {
		lg.Error().Stack().Err(err).Msg("bind sett view req failed")
		return
	}

	var resp rpcsett.SettViewResp

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	st, err := srh.sm.OpenSession(ctx, req.ConvId, req.Uid)
	if err != nil {
		if errors.Is(err, core.ErrConvGone) {
			resp.SubCode = rpcsett.ConvGoneSubCode
			resp.Msg = "conversation was gone"
		} else {
			resp.Msg = err.Error()
		}

		writeLoggedIfError(c, &resp, req.ReqId)
		return
	}

	resp.Ok = true
	resp.View = viewState2item(st)

	writeLoggedIfError(c, &resp, req.ReqId)
}

func (srh *SettRpcHandler) HandleMembershipView(c *arpc.Context) {
	lg := mylog.AppLogger()

	var req rpcsett.SettViewReq
	if err := c.Bind(&req); err != nil {
		lg.Error().Stack().Err(err).Msg("bind membership view req failed")
		return
	}

	var resp rpcsett.MembershipViewResp

	st, ok := srh.sm.ViewOf(req.ConvId, req.Uid)
	if !ok {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		var err error
		st, err = srh.sm.OpenSession(ctx, req.ConvId, req.Uid)
		if err != nil {
			if errors.Is(err, core.ErrConvGone) {
				resp.SubCode = rpcsett.ConvGoneSubCode
				resp.Msg = "conversation was gone"
			} else {
				resp.Msg = err.Error()
			}

			writeLoggedIfError(c, &resp, req.ReqId)
			return
		}
	}

	if !st.Profile.IsGroup() {
		resp.SubCode = rpcsett.NotGroupSubCode
		resp.Msg = "not a group conversation"
		writeLoggedIfError(c, &resp, req.ReqId)
		return
	}

	resp.Ok = true
	resp.Members = memberItems(st.Membership)

	writeLoggedIfError(c, &resp, req.ReqId)
}

func viewState2item(st core.ViewState) *rpcsett.SettViewItem {
	item := &rpcsett.SettViewItem{
		ConvId:             st.Profile.ConvId,
		ConvType:           uint8(st.Profile.Kind),
		RelationUid:        st.Profile.RelationUid,
		GroupNo:            st.Profile.GroupNo,
		MuteUntil:          st.Profile.MuteUntil,
		DisappearSec:       st.Profile.DisappearSec,
		ColorName:          st.Profile.ColorName,
		Members:            memberItems(st.Membership),
		RecentMedia:        make([]rpcsett.MediaItem, 0, len(st.RecentMedia)),
		MutualGroupConvIds: st.Mutual.GroupConvIds,
		AnyGroupExists:     st.Mutual.AnyGroupExists,
		RefreshTs:          st.RefreshTs,
	}

	for _, mi := range st.RecentMedia {
		item.RecentMedia = append(item.RecentMedia, rpcsett.MediaItem{
			AttachId: mi.AttachId,
			MsgId:    mi.MsgId,
			Kind:     uint8(mi.Kind),
			ThumbUrl: mi.ThumbUrl,
			Cts:      mi.Cts,
		})
	}

	return item
}

func memberItems(mv core.MembershipView) []rpcsett.MemberItem {
	items := make([]rpcsett.MemberItem, 0, len(mv.Items))
	for _, it := range mv.Items {
		items = append(items, rpcsett.MemberItem{
			Uid:      it.Uid,
			Role:     int8(it.Role),
			Nickname: it.Nickname,
			Verify:   uint8(it.Verify),
		})
	}

	return items
}

func writeLoggedIfError(c *arpc.Context, resp any, reqId string) {
	if err := c.Write(resp); err != nil {
		lg := mylog.AppLogger()
		lg.Error().Stack().Err(err).Str("req_id", reqId).Msg("write rpc resp failed")
	}
}
