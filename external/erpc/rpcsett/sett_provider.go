package rpcsett

import (
	"net"
	"time"

	"github.com/lesismal/arpc"
)

const (
	SettViewMethod       = "/sett_view"
	MembershipViewMethod = "/membership_view"
)

const (
	ConvGoneSubCode = "conv_gone"
	NotGroupSubCode = "not_group_conv"
)

type (
	SettViewReq struct {
		ConvId string `json:"convId"`
		Uid    string `json:"uid"`
		ReqId  string `json:"reqId,omitempty"`
	}

	MemberItem struct {
		Uid      string `json:"uid"`
		Role     int8   `json:"role"`
		Nickname string `json:"nickname,omitempty"`
		Verify   uint8  `json:"verify"`
	}

	MediaItem struct {
		AttachId int64  `json:"attachId"`
		MsgId    int64  `json:"msgId"`
		Kind     uint8  `json:"kind"`
		ThumbUrl string `json:"thumbUrl,omitempty"`
		Cts      int64  `json:"cts"`
	}

	SettViewItem struct {
		ConvId             string       `json:"convId"`
		ConvType           uint8        `json:"convType"`
		RelationUid        string       `json:"relationUid,omitempty"`
		GroupNo            string       `json:"groupNo,omitempty"`
		MuteUntil          int64        `json:"muteUntil,omitempty"`
		DisappearSec       int64        `json:"disappearSec,omitempty"`
		ColorName          string       `json:"colorName,omitempty"`
		Members            []MemberItem `json:"members"`
		RecentMedia        []MediaItem  `json:"recentMedia"`
		MutualGroupConvIds []string     `json:"mutualGroupConvIds"`
		AnyGroupExists     bool         `json:"anyGroupExists"`
		RefreshTs          int64        `json:"refreshTs"`
	}

	SettViewResp struct {
		Ok      bool          `json:"ok"`
		SubCode string        `json:"subCode,omitempty"`
		Msg     string        `json:"msg,omitempty"`
		View    *SettViewItem `json:"view,omitempty"`
	}

	MembershipViewResp struct {
		Ok      bool         `json:"ok"`
		SubCode string       `json:"subCode,omitempty"`
		Msg     string       `json:"msg,omitempty"`
		Members []MemberItem `json:"members,omitempty"`
	}
)

// SettRpcProvider settingsrv视图查询, 给enginesrv等内部服务用
type SettRpcProvider interface {
	SettView(convId, uid string) (*SettViewResp, error)

	MembershipView(convId, uid string) (*MembershipViewResp, error)
}

type settRpcProvider struct {
	cli *arpc.Client

	callTimeout time.Duration
}

func NewSettRpcProvider(settSrvAddr string, callTimeout time.Duration) (SettRpcProvider, error) {
	cli, err := arpc.NewClient(func() (net.Conn, error) {
		return net.DialTimeout("tcp", settSrvAddr, 3*time.Second)
	})

	if err != nil {
		return nil, err
	}

	if callTimeout <= 0 {
		callTimeout = 800 * time.Millisecond
	}

	return &settRpcProvider{
		cli:         cli,
		callTimeout: callTimeout,
	}, nil
}

func (sp *settRpcProvider) SettView(convId, uid string) (*SettViewResp, error) {
	req := SettViewReq{ConvId: convId, Uid: uid}

	var resp SettViewResp
	if err := sp.cli.Call(SettViewMethod, &req, &resp, sp.callTimeout); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (sp *settRpcProvider) MembershipView(convId, uid string) (*MembershipViewResp, error) {
	req := SettViewReq{ConvId: convId, Uid: uid}

	var resp MembershipViewResp
	if err := sp.cli.Call(MembershipViewMethod, &req, &resp, sp.callTimeout); err != nil {
		return nil, err
	}

	return &resp, nil
}
