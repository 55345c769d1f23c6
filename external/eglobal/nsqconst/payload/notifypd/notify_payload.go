package notifypd

import (
	"github.com/sweemingdow/sdconv/external/eglobal/chatconst"
)

type NotifyPayload struct {
	NotifyType string         `json:"notifyType,omitempty"`
	SubType    string         `json:"subType,omitempty"`
	Members    []string       `json:"members,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

func SettRedrawNotify(convId string, members []string) NotifyPayload {
	return NotifyPayload{
		NotifyType: chatconst.SettNotify,
		SubType:    chatconst.SettRedrawSub,
		Members:    members,
		Data: map[string]any{
			"convId": convId,
		},
	}
}

func SettConvGoneNotify(convId string, members []string) NotifyPayload {
	return NotifyPayload{
		NotifyType: chatconst.SettNotify,
		SubType:    chatconst.SettConvGoneSub,
		Members:    members,
		Data: map[string]any{
			"convId": convId,
		},
	}
}
