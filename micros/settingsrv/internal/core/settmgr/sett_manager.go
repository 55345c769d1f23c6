package settmgr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/chatconst"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst/payload/convpd"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/invalctrl"
	"github.com/sweemingdow/sdconv/pkg/async"
	"github.com/sweemingdow/sdconv/pkg/cnsq"
	"github.com/sweemingdow/sdconv/pkg/guc"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"github.com/sweemingdow/sdconv/pkg/parser/json"
	"golang.org/x/text/language"
)

const ManagerLifetimeTag = "sett_manager"

const writeTimeout = 5 * time.Second

// MqPublisher 设置变更的跨端同步出口, *cnsq.NsqProducer天然满足
type MqPublisher interface {
	PublishAsync(param cnsq.PublishParam, doneChan chan *nsq.ProducerTransaction, args []any) error
}

type settManager struct {
	// sessionKey(localUid@convId) -> controller
	sessions *haxmap.Map[string, *invalctrl.Controller]

	segLock *guc.SegmentRwLock[string]

	ss       invalctrl.Snapshots
	repos    invalctrl.Repos
	notifier core.SettNotifier
	locale   language.Tag

	ah async.AsyncHandler

	nsqPd    MqPublisher
	doneChan chan *nsq.ProducerTransaction
	done     chan struct{}
	closed   atomic.Bool

	dl *mylog.DecoLogger
}

func NewSettManager(
	esCap, strip int,
	locale language.Tag,
	ss invalctrl.Snapshots,
	repos invalctrl.Repos,
	notifier core.SettNotifier,
	ah async.AsyncHandler,
	nsqPd MqPublisher,
) core.SettManager {
	sm := &settManager{
		sessions: haxmap.New[string, *invalctrl.Controller](uintptr(esCap)),
		segLock:  guc.NewSegmentRwLock[string](strip, nil),
		ss:       ss,
		repos:    repos,
		notifier: notifier,
		locale:   locale,
		ah:       ah,
		nsqPd:    nsqPd,
		doneChan: make(chan *nsq.ProducerTransaction, 16),
		done:     make(chan struct{}),
		dl:       mylog.NewDecoLogger("sett_mgr"),
	}

	go sm.receiveMqSendAsyncResult()

	return sm
}

func sessionKey(convId, localUid string) string {
	return localUid + "@" + convId
}

func (sm *settManager) OpenSession(ctx context.Context, convId, localUid string) (core.ViewState, error) {
	if sm.closed.Load() {
		return core.ViewState{}, core.ErrSessionClosed
	}

	key := sessionKey(convId, localUid)

	ctrlVal, err := sm.segLock.WithLockManual(key, func(lock *sync.RWMutex) (any, error) {
		lock.RLock()
		ctrl, ok := sm.sessions.Get(key)
		lock.RUnlock()

		if ok {
			return ctrl, nil
		}

		lock.Lock()
		defer lock.Unlock()

		ctrl, ok = sm.sessions.Get(key)
		if ok {
			return ctrl, nil
		}

		ctrl = invalctrl.NewController(invalctrl.CtrlParam{
			ConvId:   convId,
			LocalUid: localUid,
			Locale:   sm.locale,
			Ss:       sm.ss,
			Repos:    sm.repos,
			Notifier: sm.notifier,
			OnRetire: func(convId, localUid string) {
				sm.sessions.Del(sessionKey(convId, localUid))
			},
		})

		if e := ctrl.Start(ctx); e != nil {
			return nil, e
		}

		sm.sessions.Set(key, ctrl)

		return ctrl, nil
	})

	if err != nil {
		return core.ViewState{}, err
	}

	return ctrlVal.(*invalctrl.Controller).View(), nil
}

func (sm *settManager) CloseSession(convId, localUid string) {
	key := sessionKey(convId, localUid)

	ctrl, ok := sm.sessions.Get(key)
	if !ok {
		return
	}

	sm.sessions.Del(key)
	_ = ctrl.GracefulStop(context.Background())
}

func (sm *settManager) ViewOf(convId, localUid string) (core.ViewState, bool) {
	ctrl, ok := sm.sessions.Get(sessionKey(convId, localUid))
	if !ok {
		return core.ViewState{}, false
	}

	return ctrl.View(), true
}

// OnEvent 按事件的归属分发: 带convId的只给该会话的session,
// 用户维度的广播给所有session由controller自己判定相干性
func (sm *settManager) OnEvent(ev core.Event) {
	if sm.closed.Load() {
		return
	}

	sm.sessions.ForEach(func(_ string, ctrl *invalctrl.Controller) bool {
		if ev.ConvId == "" || ctrl.ConvId() == ev.ConvId {
			ctrl.Deliver(ev)
		}

		return true
	})
}

func (sm *settManager) UpdateMuteUntil(convId, localUid string, muteUntil int64) error {
	return sm.ah.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		uts, err := sm.repos.Convs.UpdateMuteUntil(ctx, convId, localUid, muteUntil)
		if err != nil {
			sm.writeFailed(convId, localUid, chatconst.ConvMuteChanged, err)
			return
		}

		sm.afterWrite(convId, localUid, convpd.ConvUnitDataUpdatePayload{
			ConvId:       convId,
			UpdateReason: chatconst.ConvMuteChanged,
			MuteUntil:    &muteUntil,
			Members:      []string{localUid},
			Uts:          uts,
		})
	})
}

func (sm *settManager) UpdateDisappear(convId, localUid string, disappearSec int64) error {
	return sm.ah.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		uts, err := sm.repos.Convs.UpdateDisappear(ctx, convId, disappearSec)
		if err != nil {
			sm.writeFailed(convId, localUid, chatconst.ConvDisappearChanged, err)
			return
		}

		// 会话级设置, members留空表示该会话的所有端都要同步
		sm.afterWrite(convId, localUid, convpd.ConvUnitDataUpdatePayload{
			ConvId:       convId,
			UpdateReason: chatconst.ConvDisappearChanged,
			DisappearSec: &disappearSec,
			Uts:          uts,
		})
	})
}

func (sm *settManager) UpdateColor(convId, localUid, colorName string) error {
	return sm.ah.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		uts, err := sm.repos.Convs.UpdateColor(ctx, convId, localUid, colorName)
		if err != nil {
			sm.writeFailed(convId, localUid, chatconst.ConvColorChanged, err)
			return
		}

		sm.afterWrite(convId, localUid, convpd.ConvUnitDataUpdatePayload{
			ConvId:       convId,
			UpdateReason: chatconst.ConvColorChanged,
			ColorName:    &colorName,
			Members:      []string{localUid},
			Uts:          uts,
		})
	})
}

func (sm *settManager) writeFailed(convId, localUid, reason string, err error) {
	if errors.Is(err, core.ErrConvGone) {
		// 写到一半发现会话没了, 让该用户的设置页退出
		sm.notifier.NotifyConvGone(convId, []string{localUid})

		if ctrl, ok := sm.sessions.Get(sessionKey(convId, localUid)); ok {
			sm.sessions.Del(sessionKey(convId, localUid))
			_ = ctrl.GracefulStop(context.Background())
		}

		return
	}

	sm.dl.Error().Stack().Err(err).Str("conv_id", convId).Str("local_uid", localUid).Str("reason", reason).Msg("sett write failed")
}

func (sm *settManager) afterWrite(convId, localUid string, pd convpd.ConvUnitDataUpdatePayload) {
	b, err := json.Fmt(pd)
	if err != nil {
		sm.dl.Error().Stack().Err(err).Str("conv_id", convId).Msg("marshal conv unit data payload failed")
	} else {
		err = sm.nsqPd.PublishAsync(cnsq.PublishParam{
			Topic:   nsqconst.ConvUnitDataUpdateTopic,
			Payload: b,
		}, sm.doneChan, []any{convId, pd.UpdateReason})

		if err != nil {
			sm.dl.Error().Stack().Err(err).Str("conv_id", convId).Msg("publish conv unit data update failed")
		}
	}

	// 本地已打开的该会话设置页重载画像并重绘
	sm.OnEvent(core.Event{
		Type:   core.ExternalReset,
		ConvId: convId,
	})
}

func (sm *settManager) receiveMqSendAsyncResult() {
	for {
		select {
		case <-sm.done:
			return
		case pt, ok := <-sm.doneChan:
			if !ok {
				return
			}

			convId, _ := pt.Args[0].(string)
			reason, _ := pt.Args[1].(string)

			if pt.Error != nil {
				sm.dl.Error().Stack().Str("conv_id", convId).Str("reason", reason).Err(pt.Error).Msg("conv unit data async send failed")
				continue
			}

			sm.dl.Trace().Str("conv_id", convId).Str("reason", reason).Msg("conv unit data async send success")
		}
	}
}

func (sm *settManager) GracefulStop(ctx context.Context) error {
	if !sm.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(sm.done)

	sm.sessions.ForEach(func(key string, ctrl *invalctrl.Controller) bool {
		_ = ctrl.GracefulStop(ctx)
		return true
	})

	return sm.ah.Shutdown(ctx)
}
