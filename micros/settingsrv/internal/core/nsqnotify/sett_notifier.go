package nsqnotify

import (
	"context"
	"sync/atomic"

	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/notifypd"
	"github.com/sweemingdow/sdconv/pkg/cnsq"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
)

const NotifierLifetimeTag = "sett_notifier"

// NsqSettNotifier 把重绘/退出信号经mq推给接入层, 由接入层下发到用户设备
type NsqSettNotifier struct {
	pd *cnsq.NsqProducer

	doneChan chan *nsq.ProducerTransaction

	done chan struct{}

	closed atomic.Bool
}

func NewNsqSettNotifier(pd *cnsq.NsqProducer) *NsqSettNotifier {
	sn := &NsqSettNotifier{
		pd:       pd,
		doneChan: make(chan *nsq.ProducerTransaction, 16),
		done:     make(chan struct{}),
	}

	go sn.receiveMqSendAsyncResult()

	return sn
}

func (sn *NsqSettNotifier) NotifyRedraw(convId string, members []string) {
	sn.publish(notifypd.SettRedrawNotify(convId, members), convId)
}

func (sn *NsqSettNotifier) NotifyConvGone(convId string, members []string) {
	sn.publish(notifypd.SettConvGoneNotify(convId, members), convId)
}

func (sn *NsqSettNotifier) publish(pd notifypd.NotifyPayload, convId string) {
	lg := mylog.AppLogger()

	b, err := json.Fmt(pd)
	if err != nil {
		lg.Error().Stack().Err(err).Str("conv_id", convId).Msg("marshal sett notify failed")
		return
	}

	err = sn.pd.PublishAsync(cnsq.PublishParam{
		Topic:   nsqconst.SrvNotifyTopic,
		Payload: b,
	}, sn.doneChan, []any{convId, pd.SubType})

	if err != nil {
		lg.Error().Stack().Err(err).Str("conv_id", convId).Msg("publish sett notify failed")
	}
}

func (sn *NsqSettNotifier) receiveMqSendAsyncResult() {
	for {
		select {
		case <-sn.done:
			return
		case pt, ok := <-sn.doneChan:
			if !ok {
				return
			}

			convId, _ := pt.Args[0].(string)
			subType, _ := pt.Args[1].(string)

			lg := mylog.AppLogger()
			if pt.Error != nil {
				lg.Error().Stack().Str("conv_id", convId).Str("sub_type", subType).Err(pt.Error).Msg("sett notify async send failed")
				continue
			}

			lg.Trace().Str("conv_id", convId).Str("sub_type", subType).Msg("sett notify async send success")
		}
	}
}

func (sn *NsqSettNotifier) GracefulStop(_ context.Context) error {
	if !sn.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(sn.done)

	return nil
}
