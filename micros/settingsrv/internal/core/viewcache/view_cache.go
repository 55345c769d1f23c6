package viewcache

import (
	"sync/atomic"
	"time"

	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/external/emodel/usermodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/ordermgr"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/attachrepo"
)

const (
	// RecentMediaLimit 最近媒体最多保留4条
	RecentMediaLimit = 4

	// MediaFetchWindow 多捞一些再过滤脏行, 尽量把4个坑填满
	MediaFetchWindow = 16
)

// SettViewCache 设置页派生状态的持有者, 读写都是整体替换,
// 并发读方只会看到某个完整版本
type SettViewCache struct {
	state atomic.Pointer[core.ViewState]
}

func NewSettViewCache() *SettViewCache {
	return &SettViewCache{}
}

func (vc *SettViewCache) Loaded() bool {
	return vc.state.Load() != nil
}

func (vc *SettViewCache) View() core.ViewState {
	st := vc.state.Load()
	if st == nil {
		return core.ViewState{}
	}

	return *st
}

func (vc *SettViewCache) Replace(st core.ViewState) {
	st.RefreshTs = time.Now().UnixMilli()
	vc.state.Store(&st)
}

// BuildMembership 单聊没有成员视图, 群聊按 本人->管理员->普通成员 排序
func BuildMembership(
	profile chatmodel.ConvProfile,
	members []core.Participant,
	uid2verify map[string]usermodel.VerifyState,
	localUid string,
	cltr ordermgr.Collator,
) core.MembershipView {
	if !profile.IsGroup() {
		return core.MembershipView{Items: []core.MemberItem{}}
	}

	ordered := ordermgr.OrderMemberItems(members, localUid, cltr)

	items := make([]core.MemberItem, 0, len(ordered))
	for _, meb := range ordered {
		items = append(items, core.MemberItem{
			Uid:      meb.Uid,
			Role:     meb.Role,
			Nickname: meb.Nickname,
			Verify:   uid2verify[meb.Uid],
		})
	}

	return core.MembershipView{Items: items}
}

// BuildRecentMedia 行级过滤: kind非法/主键缺失/重复的行直接丢弃, 不让一条脏数据毁掉整块视图
func BuildRecentMedia(rows []attachrepo.AttachRow) []core.RecentMediaItem {
	items := make([]core.RecentMediaItem, 0, RecentMediaLimit)
	seen := make(map[int64]struct{}, len(rows))

	for _, row := range rows {
		if len(items) >= RecentMediaLimit {
			break
		}

		if row.AttachId <= 0 {
			continue
		}

		if _, dup := seen[row.AttachId]; dup {
			continue
		}

		kind := core.AttachKind(row.Kind)
		if !core.IsStreamableKind(kind) {
			continue
		}

		seen[row.AttachId] = struct{}{}
		items = append(items, core.RecentMediaItem{
			AttachId: row.AttachId,
			MsgId:    row.MsgId,
			Kind:     kind,
			ThumbUrl: row.ThumbUrl.String,
			Cts:      row.Cts,
		})
	}

	return items
}

// BuildMutualGroups 群聊会话恒为空视图, 共同群只对单聊有意义
func BuildMutualGroups(profile chatmodel.ConvProfile, groupNos []string, anyGroupExists bool) core.MutualGroupsView {
	if profile.IsGroup() {
		return core.MutualGroupsView{GroupConvIds: []string{}}
	}

	convIds := make([]string, 0, len(groupNos))
	for _, groupNo := range groupNos {
		convIds = append(convIds, chatmodel.GenerateGroupChatConvId(groupNo))
	}

	return core.MutualGroupsView{
		GroupConvIds:   convIds,
		AnyGroupExists: anyGroupExists,
	}
}
