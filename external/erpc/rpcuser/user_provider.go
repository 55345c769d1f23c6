package rpcuser

import (
	"net"
	"time"

	"github.com/lesismal/arpc"
	"github.com/sweemingdow/sdconv/external/emodel/usermodel"
)

type (
	UserStateReq struct {
		Uid string `json:"uid"`
	}

	UsersUnitInfoReq struct {
		Uids []string `json:"uids"`
	}

	UnitInfoRespItem struct {
		Uid      string `json:"uid,omitempty"`
		Nickname string `json:"nickname,omitempty"`
		Avatar   string `json:"avatar,omitempty"`
	}
)

// UserInfoRpcProvider usersrv信息查询
type UserInfoRpcProvider interface {
	UserState(uid string) (usermodel.UserState, error)

	// UsersUnitInfo 批量查询昵称/头像, 设置页成员排序要用昵称做collate
	UsersUnitInfo(uids []string) (map[string]*UnitInfoRespItem, error)
}

type userInfoRpcProvider struct {
	cli *arpc.Client

	callTimeout time.Duration
}

func NewUserInfoRpcProvider(userSrvAddr string, callTimeout time.Duration) (UserInfoRpcProvider, error) {
	cli, err := arpc.NewClient(func() (net.Conn, error) {
		return net.DialTimeout("tcp", userSrvAddr, 3*time.Second)
	})

	if err != nil {
		return nil, err
	}

	if callTimeout <= 0 {
		callTimeout = 800 * time.Millisecond
	}

	return &userInfoRpcProvider{
		cli:         cli,
		callTimeout: callTimeout,
	}, nil
}

func (up *userInfoRpcProvider) UserState(uid string) (usermodel.UserState, error) {
	req := UserStateReq{Uid: uid}

	var state usermodel.UserState
	if err := up.cli.Call("/user_state", &req, &state, up.callTimeout); err != nil {
		return usermodel.NotExists, err
	}

	return state, nil
}

func (up *userInfoRpcProvider) UsersUnitInfo(uids []string) (map[string]*UnitInfoRespItem, error) {
	req := UsersUnitInfoReq{Uids: uids}

	uid2item := make(map[string]*UnitInfoRespItem, len(uids))
	if err := up.cli.Call("/users_unit_info", &req, &uid2item, up.callTimeout); err != nil {
		return nil, err
	}

	return uid2item, nil
}
