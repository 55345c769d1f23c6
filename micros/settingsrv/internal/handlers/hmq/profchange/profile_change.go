package profchange

import (
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/settpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

// 用户维度的事件, 广播给所有打开的设置页, 是否相干由各自的controller判定
type profileChangeHandler struct {
	sm core.SettManager
}

func NewProfileChangeHandler(sm core.SettManager) nsq.Handler {
	return &profileChangeHandler{
		sm: sm,
	}
}

func (pch *profileChangeHandler) HandleMessage(message *nsq.Message) error {
	lg := mylog.AppLogger()

	var pd settpd.ProfileChangedPayload

	err := json.Parse(message.Body, &pd)
	if err != nil {
		lg.Error().Stack().Err(err).Msg("parse profile changed payload failed")
		// give up
		return nil
	}

	if pd.Uid == "" {
		lg.Warn().Str("req_id", pd.ReqId).Msg("profile changed without uid, dropped")
		return nil
	}

	lg.Trace().Str("req_id", pd.ReqId).Str("uid", pd.Uid).Msg("receive profile changed")

	pch.sm.OnEvent(core.Event{
		Type:  core.ProfileChanged,
		Uid:   pd.Uid,
		ReqId: pd.ReqId,
	})

	return nil
}
