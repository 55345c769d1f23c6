package mebchange

import (
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/settpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

// 进群/退群/踢人/角色变化都走这个topic, 设置页只关心"该会话的成员变了"
type memberChangeHandler struct {
	sm core.SettManager
}

func NewMemberChangeHandler(sm core.SettManager) nsq.Handler {
	return &memberChangeHandler{
		sm: sm,
	}
}

func (mch *memberChangeHandler) HandleMessage(message *nsq.Message) error {
	lg := mylog.AppLogger()

	var pd settpd.MemberChangedPayload

	err := json.Parse(message.Body, &pd)
	if err != nil {
		lg.Error().Stack().Err(err).Msg("parse member changed payload failed")
		// give up
		return nil
	}

	if pd.ConvId == "" {
		lg.Warn().Str("req_id", pd.ReqId).Msg("member changed without conv_id, dropped")
		return nil
	}

	lg.Trace().Str("req_id", pd.ReqId).Str("conv_id", pd.ConvId).Msg("receive member changed")

	mch.sm.OnEvent(core.Event{
		Type:   core.MembershipChanged,
		ConvId: pd.ConvId,
		ReqId:  pd.ReqId,
	})

	return nil
}
