package attchange

import (
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/settpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

type attachChangeHandler struct {
	sm core.SettManager
}

func NewAttachChangeHandler(sm core.SettManager) nsq.Handler {
	return &attachChangeHandler{
		sm: sm,
	}
}

func (ach *attachChangeHandler) HandleMessage(message *nsq.Message) error {
	lg := mylog.AppLogger()

	var pd settpd.AttachChangedPayload

	err := json.Parse(message.Body, &pd)
	if err != nil {
		lg.Error().Stack().Err(err).Msg("parse attach changed payload failed")
		// give up
		return nil
	}

	if pd.ConvId == "" {
		lg.Warn().Str("req_id", pd.ReqId).Msg("attach changed without conv_id, dropped")
		return nil
	}

	lg.Trace().Str("req_id", pd.ReqId).Str("conv_id", pd.ConvId).Msg("receive attach changed")

	ach.sm.OnEvent(core.Event{
		Type:   core.AttachmentsChanged,
		ConvId: pd.ConvId,
		ReqId:  pd.ReqId,
	})

	return nil
}
