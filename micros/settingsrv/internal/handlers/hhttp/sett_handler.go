package hhttp

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/external/erpc/rpcuser"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
	"github.com/sweemingdow/sdconv/pkg/wrapper"
)

type SettHttpHandler struct {
	sm core.SettManager

	userProvider rpcuser.UserInfoRpcProvider
}

func NewSettHttpHandler(sm core.SettManager, userProvider rpcuser.UserInfoRpcProvider) *SettHttpHandler {
	return &SettHttpHandler{
		sm:           sm,
		userProvider: userProvider,
	}
}

type (
	settViewResp struct {
		core.ViewState
		// 单聊时带上对方的昵称/头像
		Counterpart *chatmodel.UidNicknameAvatar `json:"counterpart,omitempty"`
	}

	muteReq struct {
		ConvId    string `json:"convId"`
		Uid       string `json:"uid"`
		MuteUntil int64  `json:"muteUntil"`
	}

	disappearReq struct {
		ConvId       string `json:"convId"`
		Uid          string `json:"uid"`
		DisappearSec int64  `json:"disappearSec"`
	}

	colorReq struct {
		ConvId    string `json:"convId"`
		Uid       string `json:"uid"`
		ColorName string `json:"colorName"`
	}

	sizeClassReq struct {
		ConvId string `json:"convId"`
		Uid    string `json:"uid"`
	}
)

// 打开(或复用)设置页会话并返回完整视图
func (shh *SettHttpHandler) HandleSettView(c *fiber.Ctx) error {
	convId, uid := c.Query("convId"), c.Query("uid")
	if convId == "" || uid == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "convId and uid are required"))
	}

	st, err := shh.sm.OpenSession(c.Context(), convId, uid)
	if err != nil {
		if errors.Is(err, core.ErrConvGone) {
			return sendResp(c, wrapper.SubErr(wrapper.ConvGoneSubCode, "conversation was gone"))
		}

		return err
	}

	resp := settViewResp{ViewState: st}

	if st.Profile.IsP2p() {
		resp.Counterpart = shh.counterpartOf(st.Profile.RelationUid)
	}

	return sendResp(c, wrapper.RespOk(resp))
}

// 已打开会话的成员视图
func (shh *SettHttpHandler) HandleSettMembers(c *fiber.Ctx) error {
	convId, uid := c.Query("convId"), c.Query("uid")
	if convId == "" || uid == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "convId and uid are required"))
	}

	st, ok := shh.sm.ViewOf(convId, uid)
	if !ok {
		return sendResp(c, wrapper.SubErr(wrapper.ConvGoneSubCode, "settings session not open"))
	}

	if !st.Profile.IsGroup() {
		return sendResp(c, wrapper.SubErr(wrapper.NotGroupSubCode, "not a group conversation"))
	}

	return sendResp(c, wrapper.RespOk(st.Membership))
}

func (shh *SettHttpHandler) HandleCloseSett(c *fiber.Ctx) error {
	convId, uid := c.Query("convId"), c.Query("uid")
	if convId == "" || uid == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "convId and uid are required"))
	}

	shh.sm.CloseSession(convId, uid)

	return sendResp(c, wrapper.JustOk())
}

// 静音截止时间, 0表示取消静音. 写是fire-and-forget, 接口立即返回
func (shh *SettHttpHandler) HandleUpdateMute(c *fiber.Ctx) error {
	var req muteReq
	if err := json.Parse(c.Body(), &req); err != nil || req.ConvId == "" || req.Uid == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "bad mute request"))
	}

	if err := shh.sm.UpdateMuteUntil(req.ConvId, req.Uid, req.MuteUntil); err != nil {
		return err
	}

	return sendResp(c, wrapper.JustOk())
}

func (shh *SettHttpHandler) HandleUpdateDisappear(c *fiber.Ctx) error {
	var req disappearReq
	if err := json.Parse(c.Body(), &req); err != nil || req.ConvId == "" || req.Uid == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "bad disappear request"))
	}

	if req.DisappearSec < 0 {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "disappearSec must be >= 0"))
	}

	if err := shh.sm.UpdateDisappear(req.ConvId, req.Uid, req.DisappearSec); err != nil {
		return err
	}

	return sendResp(c, wrapper.JustOk())
}

func (shh *SettHttpHandler) HandleUpdateColor(c *fiber.Ctx) error {
	var req colorReq
	if err := json.Parse(c.Body(), &req); err != nil || req.ConvId == "" || req.Uid == "" || req.ColorName == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "bad color request"))
	}

	if err := shh.sm.UpdateColor(req.ConvId, req.Uid, req.ColorName); err != nil {
		return err
	}

	return sendResp(c, wrapper.JustOk())
}

// 客户端窗口布局档位变了, 只触发重绘
func (shh *SettHttpHandler) HandleSizeClassChanged(c *fiber.Ctx) error {
	var req sizeClassReq
	if err := json.Parse(c.Body(), &req); err != nil || req.ConvId == "" || req.Uid == "" {
		return sendResp(c, wrapper.SubErr(wrapper.BadParamSubCode, "bad size class request"))
	}

	shh.sm.OnEvent(core.Event{
		Type:   core.SizeClassChanged,
		ConvId: req.ConvId,
		Uid:    req.Uid,
	})

	return sendResp(c, wrapper.JustOk())
}

func (shh *SettHttpHandler) counterpartOf(uid string) *chatmodel.UidNicknameAvatar {
	infoMap, err := shh.userProvider.UsersUnitInfo([]string{uid})
	if err != nil {
		// 对方资料拿不到不影响设置页主体
		lg := mylog.AppLogger()
		lg.Warn().Err(err).Str("uid", uid).Msg("fetch counterpart unit info failed")
		return nil
	}

	info, ok := infoMap[uid]
	if !ok {
		return nil
	}

	return &chatmodel.UidNicknameAvatar{
		Uid:      info.Uid,
		Nickname: info.Nickname,
		Avatar:   info.Avatar,
	}
}

func sendResp[T any](c *fiber.Ctx, resp wrapper.HttpRespWrapper[T]) error {
	contents, err := json.Fmt(resp)
	if err != nil {
		return err
	}

	return c.Send(contents)
}
