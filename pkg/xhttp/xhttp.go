package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/questforge/cubevault/core"
	"github.com/questforge/cubevault/pkg/errcode"
)

// Response is the uniform envelope of every JSON reply.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// OkJson replies 200 with the payload wrapped in the standard envelope.
func OkJson(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: errcode.CodeOK, Msg: "success", Data: data})
}

// Error maps an error onto the envelope. Engine errors keep their taxonomy
// code so callers can distinguish, say, a replayed digest from a forged
// signature; everything else degrades to a generic service error.
func Error(c *gin.Context, err error) {
	coded := translate(err)
	status := http.StatusBadRequest
	if coded.Code == errcode.CodeAuthorization {
		status = http.StatusForbidden
	} else if coded.Code == errcode.CodeCustom {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{Code: coded.Code, Msg: coded.Msg})
}

func translate(err error) *errcode.Err {
	var coded *errcode.Err
	if errors.As(err, &coded) {
		return coded
	}

	var (
		authErr     *core.AuthorizationError
		dupErr      *core.DuplicateQuestError
		payErr      *core.InsufficientPaymentError
		sigErr      *core.InvalidSignatureError
		replayErr   *core.ReplayError
		transferErr *core.TransferError
		tokenErr    *core.UnknownTokenError
		claimErr    *core.InvalidClaimError
	)
	switch {
	case errors.As(err, &authErr):
		return errcode.NewErr(errcode.CodeAuthorization, err.Error())
	case errors.As(err, &dupErr):
		return errcode.NewErr(errcode.CodeDuplicateQuest, err.Error())
	case errors.Is(err, core.ErrBatchShape):
		return errcode.NewErr(errcode.CodeBatchShape, err.Error())
	case errors.Is(err, core.ErrMintingDisabled):
		return errcode.NewErr(errcode.CodeMintingDisabled, err.Error())
	case errors.As(err, &payErr):
		return errcode.NewErr(errcode.CodeInsufficientPayment, err.Error())
	case errors.As(err, &sigErr):
		return errcode.NewErr(errcode.CodeInvalidSignature, err.Error())
	case errors.As(err, &replayErr):
		return errcode.NewErr(errcode.CodeReplay, err.Error())
	case errors.As(err, &transferErr):
		return errcode.NewErr(errcode.CodeTransfer, err.Error())
	case errors.As(err, &tokenErr):
		return errcode.NewErr(errcode.CodeUnknownToken, err.Error())
	case errors.As(err, &claimErr):
		return errcode.NewErr(errcode.CodeInvalidClaim, err.Error())
	}
	return errcode.NewCustomErr(err.Error())
}
