package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrMessageNotFound         = errors.New("私信不存在")
	ErrMessageToSelf           = errors.New("不能给自己发私信")
	ErrNotificationNotFound    = errors.New("通知不存在")
	ErrNotifyTypeInvalid       = errors.New("通知类型无效")
	ErrReportNotFound          = errors.New("报告不存在")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrMessageNotFound:         NotFound,
	ErrMessageToSelf:           BadRequest,
	ErrNotificationNotFound:    NotFound,
	ErrNotifyTypeInvalid:       BadRequest,
	ErrReportNotFound:          NotFound,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
