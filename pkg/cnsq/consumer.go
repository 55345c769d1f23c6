package cnsq

import (
	"context"
	"fmt"
	"time"

	"github.com/nsqio/go-nsq"
)

const ConsumerLifetimeTag = "nsq_consumer"

type ConsumerItem struct {
	Topic                 string
	Channel               string
	Concurrency           int
	MaxAttempts           uint16
	MsgTimeout            time.Duration
	RequeueDelayWhenRetry time.Duration
}

type NsqCsConfig struct {
	NsqdDirectAddr    []string
	NsqLookupdAddr    []string
	HeartbeatInterval time.Duration
	Items             []ConsumerItem
}

// NsqMsgConsumeFactory topic -> handler
type NsqMsgConsumeFactory interface {
	Get(topic string) (nsq.Handler, bool)
}

type StaticNsqMsgConsumeFactory struct {
	topic2handler map[string]nsq.Handler
}

func NewStaticNsqMsgConsumeFactory() *StaticNsqMsgConsumeFactory {
	return &StaticNsqMsgConsumeFactory{
		topic2handler: make(map[string]nsq.Handler, 8),
	}
}

func (f *StaticNsqMsgConsumeFactory) Register(topic string, handler nsq.Handler) {
	f.topic2handler[topic] = handler
}

func (f *StaticNsqMsgConsumeFactory) Get(topic string) (nsq.Handler, bool) {
	h, ok := f.topic2handler[topic]
	return h, ok
}

type NsqConsumer struct {
	consumers []*nsq.Consumer
}

func NewNsqConsumer(cfg NsqCsConfig, factory NsqMsgConsumeFactory) (*NsqConsumer, error) {
	nc := &NsqConsumer{
		consumers: make([]*nsq.Consumer, 0, len(cfg.Items)),
	}

	for _, item := range cfg.Items {
		handler, ok := factory.Get(item.Topic)
		if !ok {
			return nil, fmt.Errorf("no handler registered for topic:%s", item.Topic)
		}

		nsqCfg := nsq.NewConfig()
		if item.MaxAttempts > 0 {
			nsqCfg.MaxAttempts = item.MaxAttempts
		}
		if item.MsgTimeout > 0 {
			nsqCfg.MsgTimeout = item.MsgTimeout
		}
		if item.RequeueDelayWhenRetry > 0 {
			nsqCfg.DefaultRequeueDelay = item.RequeueDelayWhenRetry
		}
		if cfg.HeartbeatInterval > 0 {
			nsqCfg.HeartbeatInterval = cfg.HeartbeatInterval
		}

		cs, err := nsq.NewConsumer(item.Topic, item.Channel, nsqCfg)
		if err != nil {
			return nil, err
		}

		concurrency := item.Concurrency
		if concurrency <= 0 {
			concurrency = 1
		}

		cs.AddConcurrentHandlers(handler, concurrency)

		if len(cfg.NsqLookupdAddr) > 0 {
			err = cs.ConnectToNSQLookupds(cfg.NsqLookupdAddr)
		} else {
			err = cs.ConnectToNSQDs(cfg.NsqdDirectAddr)
		}

		if err != nil {
			return nil, err
		}

		nc.consumers = append(nc.consumers, cs)
	}

	return nc, nil
}

func (nc *NsqConsumer) GracefulStop(ctx context.Context) error {
	for _, cs := range nc.consumers {
		cs.Stop()
	}

	for _, cs := range nc.consumers {
		select {
		case <-cs.StopChan:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
