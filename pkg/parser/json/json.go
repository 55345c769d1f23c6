package json

import (
	jsoniter "github.com/json-iterator/go"
)

var std = jsoniter.ConfigCompatibleWithStandardLibrary

func Fmt(v any) ([]byte, error) {
	return std.Marshal(v)
}

func FmtStr(v any) (string, error) {
	return std.MarshalToString(v)
}

func Parse(data []byte, vp any) error {
	return std.Unmarshal(data, vp)
}

func ParseStr(data string, vp any) error {
	return std.UnmarshalFromString(data, vp)
}
