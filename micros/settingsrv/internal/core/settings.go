package core

import (
	"context"
	"errors"

	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/external/emodel/usermodel"
	"github.com/sweemingdow/sdconv/pkg/graceful"
)

var (
	// 会话已被删除, 设置页应当退出
	ErrConvGone = errors.New("conversation was gone")

	ErrSessionClosed = errors.New("settings session was closed")
)

type EventType uint8

const (
	AttachmentsChanged EventType = iota + 1
	MembershipChanged
	IdentityStateChanged
	ProfileChanged
	ProfileWhitelistChanged
	ExternalReset
	SizeClassChanged
)

// Event 设置页关心的外部变更事件, 只消费一次, 不落盘
type Event struct {
	Type    EventType
	ConvId  string // 事件归属会话, 可为空(全局广播)
	Uid     string // ProfileChanged / ProfileWhitelistChanged
	GroupNo string // ProfileWhitelistChanged
	ReqId   string
}

// Participant 单次计算用的成员快照, 调用方须先过滤到正式成员
type Participant struct {
	Uid      string
	Role     chatmodel.GroupRole
	State    chatmodel.GroupMebState
	Nickname string
}

type MemberItem struct {
	Uid      string                `json:"uid"`
	Role     chatmodel.GroupRole   `json:"role"`
	Nickname string                `json:"nickname,omitempty"`
	Verify   usermodel.VerifyState `json:"verify"`
}

// MembershipView 排好序的成员视图: 自己在最前, 然后管理员, 然后普通成员
type MembershipView struct {
	Items []MemberItem `json:"items"`
}

func (mv MembershipView) Uids() []string {
	uids := make([]string, len(mv.Items))
	for i, it := range mv.Items {
		uids[i] = it.Uid
	}

	return uids
}

type AttachKind uint8

const (
	AttachImage AttachKind = 1
	AttachVideo AttachKind = 2
	AttachAudio AttachKind = 3
)

func IsStreamableKind(kind AttachKind) bool {
	switch kind {
	case AttachImage, AttachVideo, AttachAudio:
		return true
	default:
		return false
	}
}

// RecentMediaItem 最近媒体的轻量句柄, 展示资源由客户端按needs懒加载
type RecentMediaItem struct {
	AttachId int64      `json:"attachId"`
	MsgId    int64      `json:"msgId"`
	Kind     AttachKind `json:"kind"`
	ThumbUrl string     `json:"thumbUrl,omitempty"`
	Cts      int64      `json:"cts"`
}

type MutualGroupsView struct {
	GroupConvIds   []string `json:"groupConvIds"`
	AnyGroupExists bool     `json:"anyGroupExists"`
}

// ViewState 设置页的全部派生状态, 每次刷新整体替换, 读方永远看不到半更新
type ViewState struct {
	Profile     chatmodel.ConvProfile `json:"profile"`
	Membership  MembershipView        `json:"membership"`
	RecentMedia []RecentMediaItem     `json:"recentMedia"`
	Mutual      MutualGroupsView      `json:"mutual"`
	RefreshTs   int64                 `json:"refreshTs"`
}

// SettNotifier 通知表现层: 重绘或退出
type SettNotifier interface {
	NotifyRedraw(convId string, members []string)

	NotifyConvGone(convId string, members []string)
}

// SettManager 会话设置管理器
type SettManager interface {
	graceful.Gracefully

	// OpenSession 打开(或复用)一个设置会话, 返回当前视图
	OpenSession(ctx context.Context, convId, localUid string) (ViewState, error)

	CloseSession(convId, localUid string)

	// OnEvent 外部变更事件入口, 由mq/http处理器调用
	OnEvent(ev Event)

	// ViewOf 已打开会话的当前视图
	ViewOf(convId, localUid string) (ViewState, bool)

	UpdateMuteUntil(convId, localUid string, muteUntil int64) error

	UpdateDisappear(convId, localUid string, disappearSec int64) error

	UpdateColor(convId, localUid, colorName string) error
}
