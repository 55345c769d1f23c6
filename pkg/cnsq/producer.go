package cnsq

import (
	"context"

	"github.com/nsqio/go-nsq"
)

const ProducerLifetimeTag = "nsq_producer"

type NsqPdConfig struct {
	NsqdAddr string
}

type PublishParam struct {
	Topic   string
	Payload []byte
}

type NsqProducer struct {
	pd *nsq.Producer
}

func NewNsqProducer(cfg NsqPdConfig) (*NsqProducer, error) {
	pd, err := nsq.NewProducer(cfg.NsqdAddr, nsq.NewConfig())
	if err != nil {
		return nil, err
	}

	if err = pd.Ping(); err != nil {
		pd.Stop()
		return nil, err
	}

	return &NsqProducer{
		pd: pd,
	}, nil
}

func (np *NsqProducer) Publish(param PublishParam) error {
	return np.pd.Publish(param.Topic, param.Payload)
}

// PublishAsync 异步发布, doneChan可为nil表示不关心结果
func (np *NsqProducer) PublishAsync(param PublishParam, doneChan chan *nsq.ProducerTransaction, args []any) error {
	return np.pd.PublishAsync(param.Topic, param.Payload, doneChan, args...)
}

func (np *NsqProducer) GracefulStop(_ context.Context) error {
	np.pd.Stop()
	return nil
}
