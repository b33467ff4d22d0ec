package handlers

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/utils"
)

// 网关与互动核心同进程, 由 main 在启动时注入
var core *service.Core

func Init(c *service.Core) {
	core = c
}

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response, HTTP 状态码跟随错误码
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	status := errno.HTTPStatus(Err)
	if status >= 500 {
		hlog.Errorf("%s %s failed: %+v", c.Method(), c.FullPath(), errors.Cause(err))
	}
	c.JSON(status, Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

type PageParam struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

type ContentParam struct {
	Content string `json:"content" form:"content"`
}

type PlaylistParam struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	IsPublic    *bool  `json:"is_public" form:"is_public"`
}

type SearchParam struct {
	Query string `query:"query"`
	Page  int    `query:"page"`
	Size  int    `query:"size"`
}

// bind 绑定失败统一视为参数错误
func bind(c *app.RequestContext, req interface{}) error {
	if err := c.BindAndValidate(req); err != nil {
		return errno.RequestErr.WithMessage(err.Error())
	}
	return nil
}

func pathID(c *app.RequestContext, name string) (int64, error) {
	id, err := utils.ConvertStringToInt64(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errno.RequestErr.WithMessage("Invalid " + name)
	}
	return id, nil
}
