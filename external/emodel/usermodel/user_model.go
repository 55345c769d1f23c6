package usermodel

type UserState uint8

const (
	NotExists  UserState = 0
	Normal     UserState = 1
	Frozen     UserState = 2
	Unregister UserState = 3
)

func (us UserState) IsOk() bool {
	return us == Normal
}

type UserUnitInfo struct {
	Uid      string `json:"uid,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// VerifyState 身份验证状态(安全号码)
type VerifyState uint8

const (
	VerifyDefault          VerifyState = 0
	Verified               VerifyState = 1
	VerifyNoLongerVerified VerifyState = 2
)
