package chatmodel

import (
	"github.com/sweemingdow/sdconv/external/eglobal/chatconst"
)

// ConvProfile 会话画像, 单聊/群聊二选一, 用Kind做穷举分支,
// 避免到处做运行时类型判断
type ConvProfile struct {
	ConvId string
	Kind   chatconst.ConvType

	// P2pConv时有效
	RelationUid string

	// GroupConv时有效
	GroupNo string

	MuteUntil    int64 // 0表示未静音
	DisappearSec int64 // 0表示关闭阅后即焚
	ColorName    string
	Uts          int64
}

func P2pProfile(convId, relationUid string) ConvProfile {
	return ConvProfile{
		ConvId:      convId,
		Kind:        chatconst.P2pConv,
		RelationUid: relationUid,
	}
}

func GroupProfile(convId, groupNo string) ConvProfile {
	return ConvProfile{
		ConvId:  convId,
		Kind:    chatconst.GroupConv,
		GroupNo: groupNo,
	}
}

func (cp ConvProfile) IsP2p() bool {
	return cp.Kind == chatconst.P2pConv
}

func (cp ConvProfile) IsGroup() bool {
	return cp.Kind == chatconst.GroupConv
}
