package settreload

import (
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/settpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

// 外部要求全量重载, convId为空时打到所有打开的设置页
type settReloadHandler struct {
	sm core.SettManager
}

func NewSettReloadHandler(sm core.SettManager) nsq.Handler {
	return &settReloadHandler{
		sm: sm,
	}
}

func (srh *settReloadHandler) HandleMessage(message *nsq.Message) error {
	lg := mylog.AppLogger()

	var pd settpd.SettReloadPayload

	err := json.Parse(message.Body, &pd)
	if err != nil {
		lg.Error().Stack().Err(err).Msg("parse sett reload payload failed")
		// give up
		return nil
	}

	lg.Debug().Str("req_id", pd.ReqId).Str("conv_id", pd.ConvId).Msg("receive sett reload")

	srh.sm.OnEvent(core.Event{
		Type:   core.ExternalReset,
		ConvId: pd.ConvId,
		ReqId:  pd.ReqId,
	})

	return nil
}
