package invalctrl

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gocraft/dbr/v2"
	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/ordermgr"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/viewcache"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/attachrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/convsrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/mutualrepo"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/partrepo"
	"github.com/sweemingdow/sdconv/pkg/mylog"
	"golang.org/x/text/language"
)

type CtrlState int32

const (
	CtrlIdle CtrlState = iota
	CtrlRefreshing
)

type refreshMask uint8

const (
	refreshMembership refreshMask = 1 << iota
	refreshMedia
	refreshMutual

	refreshAll = refreshMembership | refreshMedia | refreshMutual
)

const eventChanCap = 64

// Snapshots 同一次刷新内的多条查询要看到一致的库状态
type Snapshots interface {
	WithReadSnapshotCtx(ctx context.Context, fn func(ctx context.Context, tx *dbr.Tx) error) error
}

type Repos struct {
	Convs   convsrepo.ConvSettRepository
	Parts   partrepo.ParticipantRepository
	Attachs attachrepo.AttachRepository
	Mutuals mutualrepo.MutualGroupRepository
}

type CtrlParam struct {
	ConvId   string
	LocalUid string
	Locale   language.Tag
	Ss       Snapshots
	Repos    Repos
	Notifier core.SettNotifier

	// OnRetire 会话没了之后由controller回调, 让管理器摘掉自己
	OnRetire func(convId, localUid string)
}

/*
Controller 一个打开的设置页对应一个controller:

	Idle -> Refreshing: 任一事件到达
	Refreshing -> Idle: 该事件的刷新(们)做完, 无条件回落

事件不去重不合并, 每个事件独立走一遍自己的刷新序列,
快照读发现会话没了是唯一致命情况, 退场并通知客户端返回上一页
*/
type Controller struct {
	convId   string
	localUid string
	locale   language.Tag

	vc *viewcache.SettViewCache

	events chan core.Event
	done   chan struct{}

	closed  atomic.Bool
	retired atomic.Bool
	state   atomic.Int32

	ss       Snapshots
	repos    Repos
	notifier core.SettNotifier
	onRetire func(convId, localUid string)

	dl *mylog.DecoLogger
}

func NewController(pa CtrlParam) *Controller {
	return &Controller{
		convId:   pa.ConvId,
		localUid: pa.LocalUid,
		locale:   pa.Locale,
		vc:       viewcache.NewSettViewCache(),
		events:   make(chan core.Event, eventChanCap),
		done:     make(chan struct{}),
		ss:       pa.Ss,
		repos:    pa.Repos,
		notifier: pa.Notifier,
		onRetire: pa.OnRetire,
		dl:       mylog.NewDecoLogger("inval_ctrl"),
	}
}

// Start 同步做一次全量加载, 会话不存在直接返回core.ErrConvGone, 成功后起事件循环
func (c *Controller) Start(ctx context.Context) error {
	if err := c.refresh(ctx, refreshAll); err != nil {
		return err
	}

	go c.loop()

	return nil
}

func (c *Controller) ConvId() string {
	return c.convId
}

func (c *Controller) LocalUid() string {
	return c.localUid
}

func (c *Controller) State() CtrlState {
	return CtrlState(c.state.Load())
}

func (c *Controller) Retired() bool {
	return c.retired.Load()
}

func (c *Controller) View() core.ViewState {
	return c.vc.View()
}

// Deliver 投递一个事件, controller已退场/已关闭时返回false
func (c *Controller) Deliver(ev core.Event) bool {
	if c.closed.Load() || c.retired.Load() {
		return false
	}

	select {
	case c.events <- ev:
		return true
	default:
		// 低频UI事件打满64深度说明出了别的问题, 丢弃并记录
		c.dl.Warn().Str("conv_id", c.convId).Str("local_uid", c.localUid).Uint8("ev_type", uint8(ev.Type)).Msg("event chan full, dropped")
		return false
	}
}

func (c *Controller) GracefulStop(_ context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(c.done)

	return nil
}

func (c *Controller) loop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.events:
			c.handleEvent(ev)

			if c.retired.Load() {
				return
			}
		}
	}
}

func (c *Controller) handleEvent(ev core.Event) {
	c.state.Store(int32(CtrlRefreshing))
	defer c.state.Store(int32(CtrlIdle))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		dirty bool
		err   error
	)

	switch ev.Type {
	case core.AttachmentsChanged:
		err = c.refresh(ctx, refreshMedia)
		dirty = err == nil
	case core.MembershipChanged:
		err = c.refresh(ctx, refreshMembership|refreshMutual)
		dirty = err == nil
	case core.IdentityStateChanged:
		// 验证状态直接影响展示, 无需重算缓存
		dirty = true
	case core.ProfileChanged:
		dirty = c.matchesCounterpart(ev.Uid)
	case core.ProfileWhitelistChanged:
		dirty = c.matchesConv(ev.Uid, ev.GroupNo)
	case core.ExternalReset:
		err = c.refresh(ctx, refreshMedia|refreshMutual)
		dirty = err == nil
	case core.SizeClassChanged:
		// 布局级变化, 无条件重绘
		dirty = true
	default:
		c.dl.Warn().Str("conv_id", c.convId).Uint8("ev_type", uint8(ev.Type)).Msg("unknown event type, skipped")
		return
	}

	if err != nil {
		if errors.Is(err, core.ErrConvGone) {
			c.retire()
			return
		}

		c.dl.Error().Stack().Err(err).Str("conv_id", c.convId).Str("local_uid", c.localUid).Uint8("ev_type", uint8(ev.Type)).Msg("refresh failed")
		return
	}

	if dirty {
		// 每个事件最多一次重绘, 哪怕它触发了多块刷新
		c.notifier.NotifyRedraw(c.convId, []string{c.localUid})
	}
}

// refresh 在一个只读快照里完成本次需要的全部查询, 先取画像,
// 画像没了就别算了
func (c *Controller) refresh(ctx context.Context, mask refreshMask) error {
	var next core.ViewState
	if c.vc.Loaded() {
		next = c.vc.View()
	}

	err := c.ss.WithReadSnapshotCtx(ctx, func(ctx context.Context, tx *dbr.Tx) error {
		profile, e := c.repos.Convs.FindConvProfile(ctx, tx, c.convId, c.localUid)
		if e != nil {
			return e
		}

		next.Profile = profile

		if mask&refreshMembership != 0 {
			if e = c.reloadMembership(ctx, tx, profile, &next); e != nil {
				return e
			}
		}

		if mask&refreshMedia != 0 {
			rows, ie := c.repos.Attachs.FindRecentAttaches(ctx, tx, c.convId, viewcache.MediaFetchWindow)
			if ie != nil {
				return ie
			}

			next.RecentMedia = viewcache.BuildRecentMedia(rows)
		}

		if mask&refreshMutual != 0 {
			if e = c.reloadMutualGroups(ctx, tx, profile, &next); e != nil {
				return e
			}
		}

		return nil
	})

	if err != nil {
		return err
	}

	c.vc.Replace(next)

	return nil
}

func (c *Controller) reloadMembership(ctx context.Context, tx *dbr.Tx, profile chatmodel.ConvProfile, next *core.ViewState) error {
	if !profile.IsGroup() {
		next.Membership = viewcache.BuildMembership(profile, nil, nil, c.localUid, nil)
		return nil
	}

	members, err := c.repos.Parts.FindFullMembers(ctx, tx, profile.GroupNo)
	if err != nil {
		return err
	}

	uids := make([]string, 0, len(members))
	uid2name := make(map[string]string, len(members))
	for _, meb := range members {
		uids = append(uids, meb.Uid)
		uid2name[meb.Uid] = meb.Nickname
	}

	uid2verify, err := c.repos.Parts.VerifyStates(ctx, tx, uids)
	if err != nil {
		return err
	}

	cltr := ordermgr.NicknameCollator(c.locale, uid2name)
	next.Membership = viewcache.BuildMembership(profile, members, uid2verify, c.localUid, cltr)

	return nil
}

func (c *Controller) reloadMutualGroups(ctx context.Context, tx *dbr.Tx, profile chatmodel.ConvProfile, next *core.ViewState) error {
	if profile.IsGroup() {
		next.Mutual = viewcache.BuildMutualGroups(profile, nil, false)
		return nil
	}

	groupNos, err := c.repos.Mutuals.FindMutualGroupNos(ctx, tx, c.localUid, profile.RelationUid)
	if err != nil {
		return err
	}

	anyExists, err := c.repos.Mutuals.AnyGroupExists(ctx, tx, c.localUid)
	if err != nil {
		return err
	}

	next.Mutual = viewcache.BuildMutualGroups(profile, groupNos, anyExists)

	return nil
}

func (c *Controller) matchesCounterpart(uid string) bool {
	profile := c.vc.View().Profile

	return profile.IsP2p() && uid != "" && uid == profile.RelationUid
}

func (c *Controller) matchesConv(uid, groupNo string) bool {
	profile := c.vc.View().Profile

	if profile.IsP2p() {
		return uid != "" && uid == profile.RelationUid
	}

	return groupNo != "" && groupNo == profile.GroupNo
}

func (c *Controller) retire() {
	if !c.retired.CompareAndSwap(false, true) {
		return
	}

	c.dl.Info().Str("conv_id", c.convId).Str("local_uid", c.localUid).Msg("conversation was gone, retire settings session")

	c.notifier.NotifyConvGone(c.convId, []string{c.localUid})

	if c.onRetire != nil {
		c.onRetire(c.convId, c.localUid)
	}
}
