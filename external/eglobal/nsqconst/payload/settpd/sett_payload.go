package settpd

// 附件变动事件
type AttachChangedPayload struct {
	ConvId string `json:"convId,omitempty"`
	ReqId  string `json:"reqId,omitempty"`
}

// 群成员变动事件(进群/退群/踢人/角色变化都走这里, 设置页只关心"变了")
type MemberChangedPayload struct {
	ConvId string `json:"convId,omitempty"`
	ReqId  string `json:"reqId,omitempty"`
}

// 身份验证状态变动事件
type IdentityChangedPayload struct {
	ConvId string `json:"convId,omitempty"`
	ReqId  string `json:"reqId,omitempty"`
}

// 用户资料变动事件
type ProfileChangedPayload struct {
	Uid   string `json:"uid,omitempty"`
	ReqId string `json:"reqId,omitempty"`
}

// 资料白名单变动事件, uid和groupNo二选一
type WhitelistChangedPayload struct {
	Uid     string `json:"uid,omitempty"`
	GroupNo string `json:"groupNo,omitempty"`
	ReqId   string `json:"reqId,omitempty"`
}

// 外部要求全量重载
type SettReloadPayload struct {
	ConvId string `json:"convId,omitempty"` // 为空表示所有打开的设置页
	ReqId  string `json:"reqId,omitempty"`
}
