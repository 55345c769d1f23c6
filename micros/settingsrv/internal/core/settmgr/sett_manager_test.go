package settmgr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocraft/dbr/v2"
	"github.com/nsqio/go-nsq"
	"github.com/sweemingdow/sdconv/external/eglobal/nsqconst"
	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/external/emodel/usermodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/invalctrl"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/attachrepo"
	"github.com/sweemingdow/sdconv/pkg/async"
	"github.com/sweemingdow/sdconv/pkg/cnsq"
	"golang.org/x/text/language"
)

type fakeSnapshots struct{}

func (fs *fakeSnapshots) WithReadSnapshotCtx(ctx context.Context, fn func(ctx context.Context, tx *dbr.Tx) error) error {
	return fn(ctx, nil)
}

type fakeConvs struct {
	profiles map[string]chatmodel.ConvProfile

	profileCalls atomic.Int32
	muteWrites   atomic.Int32
}

func (fc *fakeConvs) FindConvProfile(_ context.Context, _ *dbr.Tx, convId, _ string) (chatmodel.ConvProfile, error) {
	fc.profileCalls.Add(1)

	profile, ok := fc.profiles[convId]
	if !ok {
		return chatmodel.ConvProfile{}, core.ErrConvGone
	}

	return profile, nil
}

func (fc *fakeConvs) UpdateMuteUntil(_ context.Context, convId, _ string, _ int64) (int64, error) {
	if _, ok := fc.profiles[convId]; !ok {
		return 0, core.ErrConvGone
	}

	fc.muteWrites.Add(1)
	return time.Now().UnixMilli(), nil
}

func (fc *fakeConvs) UpdateDisappear(_ context.Context, convId string, _ int64) (int64, error) {
	if _, ok := fc.profiles[convId]; !ok {
		return 0, core.ErrConvGone
	}

	return time.Now().UnixMilli(), nil
}

func (fc *fakeConvs) UpdateColor(_ context.Context, convId, _, _ string) (int64, error) {
	if _, ok := fc.profiles[convId]; !ok {
		return 0, core.ErrConvGone
	}

	return time.Now().UnixMilli(), nil
}

type fakeParts struct{}

func (fp *fakeParts) FindFullMembers(_ context.Context, _ *dbr.Tx, _ string) ([]core.Participant, error) {
	return nil, nil
}

func (fp *fakeParts) VerifyStates(_ context.Context, _ *dbr.Tx, _ []string) (map[string]usermodel.VerifyState, error) {
	return nil, nil
}

type fakeAttachs struct{}

func (fa *fakeAttachs) FindRecentAttaches(_ context.Context, _ *dbr.Tx, _ string, _ int) ([]attachrepo.AttachRow, error) {
	return nil, nil
}

type fakeMutuals struct{}

func (fm *fakeMutuals) FindMutualGroupNos(_ context.Context, _ *dbr.Tx, _, _ string) ([]string, error) {
	return nil, nil
}

func (fm *fakeMutuals) AnyGroupExists(_ context.Context, _ *dbr.Tx, _ string) (bool, error) {
	return false, nil
}

type fakeNotifier struct {
	redrawCh chan string
	goneCh   chan string
}

func (fn *fakeNotifier) NotifyRedraw(convId string, _ []string) {
	select {
	case fn.redrawCh <- convId:
	default:
	}
}

func (fn *fakeNotifier) NotifyConvGone(convId string, _ []string) {
	select {
	case fn.goneCh <- convId:
	default:
	}
}

type fakePublisher struct {
	publishCh chan string // topic
}

func (fp *fakePublisher) PublishAsync(param cnsq.PublishParam, _ chan *nsq.ProducerTransaction, _ []any) error {
	fp.publishCh <- param.Topic
	return nil
}

type mgrFixture struct {
	mgr      core.SettManager
	convs    *fakeConvs
	notifier *fakeNotifier
	pub      *fakePublisher
}

func newMgrFixture(t *testing.T, profiles map[string]chatmodel.ConvProfile) *mgrFixture {
	t.Helper()

	fx := &mgrFixture{
		convs: &fakeConvs{profiles: profiles},
		notifier: &fakeNotifier{
			redrawCh: make(chan string, 16),
			goneCh:   make(chan string, 16),
		},
		pub: &fakePublisher{publishCh: make(chan string, 16)},
	}

	fx.mgr = NewSettManager(
		16,
		8,
		language.English,
		&fakeSnapshots{},
		invalctrl.Repos{
			Convs:   fx.convs,
			Parts:   &fakeParts{},
			Attachs: &fakeAttachs{},
			Mutuals: &fakeMutuals{},
		},
		fx.notifier,
		async.NewCallerRunHandler(async.CallerRunOptions{CoreWorkers: 2, MaxWorkers: 4}),
		fx.pub,
	)

	t.Cleanup(func() {
		_ = fx.mgr.GracefulStop(context.Background())
	})

	return fx
}

func p2pProfiles() map[string]chatmodel.ConvProfile {
	return map[string]chatmodel.ConvProfile{
		"p2p:u_b:u_l": chatmodel.P2pProfile("p2p:u_b:u_l", "u_b"),
		"p2p:u_c:u_l": chatmodel.P2pProfile("p2p:u_c:u_l", "u_c"),
	}
}

func TestOpenSessionLazyInitOnce(t *testing.T) {
	fx := newMgrFixture(t, p2pProfiles())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := fx.mgr.OpenSession(context.Background(), "p2p:u_b:u_l", "u_l"); err != nil {
				t.Errorf("open failed:%v", err)
			}
		}()
	}
	wg.Wait()

	// 8个并发open只允许初始化一次(初始全量加载只有一次画像查询)
	if got := fx.convs.profileCalls.Load(); got != 1 {
		t.Fatalf("want 1 initial load, got:%d", got)
	}

	if _, ok := fx.mgr.ViewOf("p2p:u_b:u_l", "u_l"); !ok {
		t.Fatal("session must be registered")
	}
}

func TestOpenSessionConvGone(t *testing.T) {
	fx := newMgrFixture(t, p2pProfiles())

	_, err := fx.mgr.OpenSession(context.Background(), "p2p:u_x:u_l", "u_l")
	if !errors.Is(err, core.ErrConvGone) {
		t.Fatalf("want ErrConvGone, got:%v", err)
	}

	if _, ok := fx.mgr.ViewOf("p2p:u_x:u_l", "u_l"); ok {
		t.Fatal("failed open must not leave a session behind")
	}
}

func TestOnEventRoutesByConv(t *testing.T) {
	fx := newMgrFixture(t, p2pProfiles())

	if _, err := fx.mgr.OpenSession(context.Background(), "p2p:u_b:u_l", "u_l"); err != nil {
		t.Fatalf("open failed:%v", err)
	}
	if _, err := fx.mgr.OpenSession(context.Background(), "p2p:u_c:u_l", "u_l"); err != nil {
		t.Fatalf("open failed:%v", err)
	}

	fx.mgr.OnEvent(core.Event{Type: core.AttachmentsChanged, ConvId: "p2p:u_b:u_l"})

	select {
	case convId := <-fx.notifier.redrawCh:
		if convId != "p2p:u_b:u_l" {
			t.Fatalf("redraw routed to wrong conv:%s", convId)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("missing redraw")
	}

	select {
	case convId := <-fx.notifier.redrawCh:
		t.Fatalf("unrelated session must stay quiet, got redraw for:%s", convId)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestUpdateMuteWriteThrough(t *testing.T) {
	fx := newMgrFixture(t, p2pProfiles())

	if _, err := fx.mgr.OpenSession(context.Background(), "p2p:u_b:u_l", "u_l"); err != nil {
		t.Fatalf("open failed:%v", err)
	}

	if err := fx.mgr.UpdateMuteUntil("p2p:u_b:u_l", "u_l", time.Now().Add(time.Hour).UnixMilli()); err != nil {
		t.Fatalf("submit failed:%v", err)
	}

	select {
	case topic := <-fx.pub.publishCh:
		if topic != nsqconst.ConvUnitDataUpdateTopic {
			t.Fatalf("unexpected topic:%s", topic)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("write must publish a conv unit data update")
	}

	// 写完成后本地session重载并重绘
	select {
	case <-fx.notifier.redrawCh:
	case <-time.After(2 * time.Second):
		t.Fatal("missing post-write redraw")
	}

	if fx.convs.muteWrites.Load() != 1 {
		t.Fatalf("want 1 mute write, got:%d", fx.convs.muteWrites.Load())
	}
}

func TestUpdateOnGoneConvEmitsNavigateBack(t *testing.T) {
	fx := newMgrFixture(t, p2pProfiles())

	if err := fx.mgr.UpdateDisappear("p2p:u_x:u_l", "u_l", 3600); err != nil {
		t.Fatalf("submit failed:%v", err)
	}

	select {
	case convId := <-fx.notifier.goneCh:
		if convId != "p2p:u_x:u_l" {
			t.Fatalf("wrong conv:%s", convId)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("write on gone conv must emit navigate-back")
	}
}

func TestCloseSession(t *testing.T) {
	fx := newMgrFixture(t, p2pProfiles())

	if _, err := fx.mgr.OpenSession(context.Background(), "p2p:u_b:u_l", "u_l"); err != nil {
		t.Fatalf("open failed:%v", err)
	}

	fx.mgr.CloseSession("p2p:u_b:u_l", "u_l")

	if _, ok := fx.mgr.ViewOf("p2p:u_b:u_l", "u_l"); ok {
		t.Fatal("closed session must be dropped")
	}
}
