// Package errors 跨模块共享的错误类别
//
// 各业务模块的哨兵错误通过 fmt.Errorf("%w") 包装这些类别，
// Handler 既可按具体错误也可按类别 errors.Is 判断。
package errors

import "errors"

var (
	// ErrUnauthorized 未登录或会话失效
	ErrUnauthorized = errors.New("未登录或登录已过期")
	// ErrInvalidTransition 当前状态下不允许该操作（如已在工作中再次上班打卡）
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrValidation 输入校验失败
	ErrValidation = errors.New("参数校验失败")
)
