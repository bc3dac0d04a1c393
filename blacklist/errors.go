package blacklist

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a lookup failure. Every Kind maps to exactly one user facing
// message (see Message)
type Kind int

// Lookup failure kinds
const (
	KindUnclassified Kind = iota
	KindConfigurationMissing
	KindEmptyInput
	KindTransport
	KindHTTPStatus
	KindEmptyBody
	KindMalformedJSON
	KindNoRecord
	KindIncompleteRecord
)

var kindNames = map[Kind]string{
	KindUnclassified:         "unclassified",
	KindConfigurationMissing: "configurationMissing",
	KindEmptyInput:           "emptyInput",
	KindTransport:            "transport",
	KindHTTPStatus:           "httpStatus",
	KindEmptyBody:            "emptyBody",
	KindMalformedJSON:        "malformedJSON",
	KindNoRecord:             "noRecord",
	KindIncompleteRecord:     "incompleteRecord",
}

// String returns the name of the kind
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a lookup failure of a known Kind
type Error struct {
	Kind Kind

	// StatusCode is the upstream HTTP status, only set for KindHTTPStatus
	StatusCode int

	// BodyPreview is the start of the upstream body, only set for KindMalformedJSON
	BodyPreview string

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// BodyPreview returns the upstream body preview carried by err, if any
func BodyPreview(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.BodyPreview
	}

	return ""
}

// KindOf returns the Kind of err or KindUnclassified if err isn't a lookup Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnclassified
}

// Message renders the reply sent to the chat for err. A nil error renders as an empty string
func Message(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("查询失败：%v", err)
	}

	switch e.Kind {
	case KindConfigurationMissing:
		return "请先在插件配置中填写申请的API Key"
	case KindEmptyInput:
		return "请输入查询的用户ID，格式：云黑查询 <ID>"
	case KindTransport:
		return fmt.Sprintf("查询失败：网络错误（%v）", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("查询失败：API返回异常状态码（%d）", e.StatusCode)
	case KindEmptyBody:
		return "查询失败：API返回空响应"
	case KindMalformedJSON:
		return fmt.Sprintf("查询失败：API返回数据格式错误 (%v)", e.Err)
	case KindNoRecord:
		return "未查询到该用户的信息"
	case KindIncompleteRecord:
		return "查询失败：API返回数据格式不完整"
	default:
		return fmt.Sprintf("查询失败：%v", e.Err)
	}
}
