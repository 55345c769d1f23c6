package wlchange

import (
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/settpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

type whitelistChangeHandler struct {
	sm core.SettManager
}

func NewWhitelistChangeHandler(sm core.SettManager) nsq.Handler {
	return &whitelistChangeHandler{
		sm: sm,
	}
}

func (wch *whitelistChangeHandler) HandleMessage(message *nsq.Message) error {
	lg := mylog.AppLogger()

	var pd settpd.WhitelistChangedPayload

	err := json.Parse(message.Body, &pd)
	if err != nil {
		lg.Error().Stack().Err(err).Msg("parse whitelist changed payload failed")
		// give up
		return nil
	}

	if pd.Uid == "" && pd.GroupNo == "" {
		lg.Warn().Str("req_id", pd.ReqId).Msg("whitelist changed without uid or group_no, dropped")
		return nil
	}

	lg.Trace().Str("req_id", pd.ReqId).Str("uid", pd.Uid).Str("group_no", pd.GroupNo).Msg("receive whitelist changed")

	wch.sm.OnEvent(core.Event{
		Type:    core.ProfileWhitelistChanged,
		Uid:     pd.Uid,
		GroupNo: pd.GroupNo,
		ReqId:   pd.ReqId,
	})

	return nil
}
