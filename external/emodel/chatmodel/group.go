package chatmodel

type GroupRole int8

const (
	Owner       GroupRole = 1
	Manager     GroupRole = 2
	OrdinaryMeb GroupRole = 3
)

// IsAdminRole 群主和管理员在成员列表里排前面
func IsAdminRole(role GroupRole) bool {
	return role == Owner || role == Manager
}

type GroupState int8

const (
	GrpNormal    GroupState = 1 // ok
	GrpFrozen    GroupState = 2 // 冻结
	GrpDismissed GroupState = 3 // 解散
)

type GroupMebState int8

const (
	GrpMebNormal    GroupMebState = 1 // ok
	GrpMebKicked    GroupMebState = 2 // be kicked
	GrpMebInvited   GroupMebState = 3 // 已邀请未接受
	GrpMebRequested GroupMebState = 4 // 申请加入待审批
)

func GenerateGroupChatConvId(grpNo string) string {
	return "grp:" + grpNo
}

func GenerateP2pConvId(uidA, uidB string) string {
	if uidA <= uidB {
		return "p2p:" + uidA + ":" + uidB
	}

	return "p2p:" + uidB + ":" + uidA
}
