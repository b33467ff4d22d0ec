package errno

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	SuccessCode             = 0
	ServiceErrCode          = 10001
	ParamErrCode            = 10002
	UnauthenticatedErrCode  = 10003
	ForbiddenErrCode        = 10004
	NotFoundErrCode         = 10005
	ConflictErrCode         = 10006
	StoreUnavailableErrCode = 10007
	OssErrCode              = 10008
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

// Is 只比较错误码, 便于 errors.Is 匹配带了不同消息的同类错误
func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	return ok && t.ErrCode == e.ErrCode
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

var (
	Success             = NewErrNo(SuccessCode, "Success")
	ServiceErr          = NewErrNo(ServiceErrCode, "Service is unable to start successfully")
	RequestErr          = NewErrNo(ParamErrCode, "Wrong Parameter has been given")
	UnauthenticatedErr  = NewErrNo(UnauthenticatedErrCode, "Not authenticated")
	ForbiddenErr        = NewErrNo(ForbiddenErrCode, "You are not allowed to perform this action")
	NotFoundErr         = NewErrNo(NotFoundErrCode, "Resource not found")
	ConflictErr         = NewErrNo(ConflictErrCode, "Resource already exists")
	StoreUnavailableErr = NewErrNo(StoreUnavailableErrCode, "Store is unavailable")
	OssErr              = NewErrNo(OssErrCode, "Media store failure")
)

var httpStatus = map[int64]int{
	SuccessCode:             http.StatusOK,
	ServiceErrCode:          http.StatusInternalServerError,
	ParamErrCode:            http.StatusBadRequest,
	UnauthenticatedErrCode:  http.StatusUnauthorized,
	ForbiddenErrCode:        http.StatusForbidden,
	NotFoundErrCode:         http.StatusNotFound,
	ConflictErrCode:         http.StatusConflict,
	StoreUnavailableErrCode: http.StatusInternalServerError,
	OssErrCode:              http.StatusBadGateway,
}

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}

// HTTPStatus 错误码对应的 HTTP 状态码, 未登记的错误码按 500 处理
func HTTPStatus(e ErrNo) int {
	if s, ok := httpStatus[e.ErrCode]; ok {
		return s
	}
	return http.StatusInternalServerError
}
