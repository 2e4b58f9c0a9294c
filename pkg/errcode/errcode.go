package errcode

import "fmt"

// Err is a coded error for the HTTP surface. Codes below 200 follow the
// engine's error taxonomy so callers can react programmatically; 10000+
// are generic service failures.
type Err struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

func NewErr(code int, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// NewCustomErr wraps a free-form message as a generic service error.
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustom, msg)
}

const (
	CodeOK     = 200
	CodeCustom = 10001
	CodeParam  = 10002

	CodeAuthorization       = 101
	CodeDuplicateQuest      = 102
	CodeBatchShape          = 103
	CodeMintingDisabled     = 104
	CodeInsufficientPayment = 105
	CodeInvalidSignature    = 106
	CodeReplay              = 107
	CodeTransfer            = 108
	CodeUnknownToken        = 109
	CodeInvalidClaim        = 110
)

var (
	ErrParam        = NewErr(CodeParam, "invalid request parameter")
	ErrUnauthorized = NewErr(CodeAuthorization, "caller is not authorized")
)
