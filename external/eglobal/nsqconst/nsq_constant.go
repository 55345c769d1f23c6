package nsqconst

const (
	// 附件新增/删除(msgsrv发布)
	AttachChangeTopic = "topic.attach_change"

	// 群成员变动(topicsrv发布)
	ConvMemberChangeTopic = "topic.conv_member_change"

	// 身份验证状态变动(usersrv发布)
	IdentityChangeTopic = "topic.identity_change"

	// 用户资料变动(usersrv发布)
	ProfileChangeTopic = "topic.profile_change"

	// 资料共享白名单变动(usersrv发布)
	ProfileWhitelistChangeTopic = "topic.profile_whitelist_change"

	// 设置页全量重载
	SettReloadTopic = "topic.sett_reload"
)

const (
	ConvUnitDataUpdateTopic = "topic.conv_unit_data.update"
)

const (
	SrvNotifyTopic = "topic.srv_notify"
)
