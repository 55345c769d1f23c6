package wrapper

import "github.com/sweemingdow/sdconv/pkg/parser/json"

const (
	Ok     = "1"
	GenErr = "0"
)

// 业务子码
const (
	ConvGoneSubCode = "conv_gone"
	NotGroupSubCode = "not_group_conv"
	BadParamSubCode = "bad_param"
)

type HttpRespWrapper[T any] struct {
	Code    string `json:"code,omitempty"`
	SubCode string `json:"subCode,omitempty"`
	Msg     string `json:"msg,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func RespOk[T any](data T) HttpRespWrapper[T] {
	return HttpRespWrapper[T]{
		Code: Ok,
		Data: data,
	}
}

func JustOk() HttpRespWrapper[any] {
	return HttpRespWrapper[any]{
		Code: Ok,
	}
}

func GeneralErr(err error) HttpRespWrapper[any] {
	return HttpRespWrapper[any]{
		Code: GenErr,
		Msg:  err.Error(),
	}
}

func SubErr(subCode, msg string) HttpRespWrapper[any] {
	return HttpRespWrapper[any]{
		Code:    GenErr,
		SubCode: subCode,
		Msg:     msg,
	}
}

func (hrw HttpRespWrapper[T]) IsOK() bool {
	return hrw.Code == Ok
}

func (hrw HttpRespWrapper[T]) IsGeneralErr() bool {
	return hrw.Code == GenErr
}

func ParseResp[T any](respBuf []byte, vp *HttpRespWrapper[T]) error {
	return json.Parse(respBuf, vp)
}
