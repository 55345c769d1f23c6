package chatconst

// 会话设置变更原因
const (
	ConvMuteChanged = "ConvMuteChanged" // 免打扰/静音截止变更

	ConvDisappearChanged = "ConvDisappearChanged" // 阅后即焚时长变更

	ConvColorChanged = "ConvColorChanged" // 会话配色变更
)

// 设置页通知类型
const (
	SettNotify = "SettNotify"

	SettRedrawSub = "SettRedraw" // 设置页需要重绘

	SettConvGoneSub = "SettConvGone" // 会话已不存在, 客户端返回上一页
)
