package chatconst

type ChatType uint8

const (
	P2pChat   ChatType = 1
	GroupChat ChatType = 2
)

type ConvType uint8

const (
	P2pConv   ConvType = 1
	GroupConv ConvType = 2
)

var (
	chatType2convType = map[ChatType]ConvType{
		P2pChat:   P2pConv,
		GroupChat: GroupConv,
	}
)

func GetConvTypeWithChatType(ct ChatType) ConvType {
	return chatType2convType[ct]
}

func IsValidConvType(ct ChatType) bool {
	_, ok := chatType2convType[ct]
	return ok
}
