package identchange

import (
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/settpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

type identityChangeHandler struct {
	sm core.SettManager
}

func NewIdentityChangeHandler(sm core.SettManager) nsq.Handler {
	return &identityChangeHandler{
		sm: sm,
	}
}

func (ich *identityChangeHandler) HandleMessage(message *nsq.Message) error {
	lg := mylog.AppLogger()

	var pd settpd.IdentityChangedPayload

	err := json.Parse(message.Body, &pd)
	if err != nil {
		lg.Error().Stack().Err(err).Msg("parse identity changed payload failed")
		// give up
		return nil
	}

	if pd.ConvId == "" {
		lg.Warn().Str("req_id", pd.ReqId).Msg("identity changed without conv_id, dropped")
		return nil
	}

	lg.Trace().Str("req_id", pd.ReqId).Str("conv_id", pd.ConvId).Msg("receive identity changed")

	ich.sm.OnEvent(core.Event{
		Type:   core.IdentityStateChanged,
		ConvId: pd.ConvId,
		ReqId:  pd.ReqId,
	})

	return nil
}
