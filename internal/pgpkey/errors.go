package pgpkey

import (
	"errors"
	"fmt"
)

const (
	// ErrCodeOpenFailed 表示密钥文件无法打开。
	ErrCodeOpenFailed = "open_failed"
	// ErrCodeReadFailed 表示读取失败（含不足 5 字节的短文件）。
	ErrCodeReadFailed = "read_failed"
	// ErrCodeSeekFailed 表示 raw 路径重定位到时间戳偏移失败。
	ErrCodeSeekFailed = "seek_failed"
	// ErrCodeTruncatedKey 表示 raw 密钥在时间戳字段处被截断。
	ErrCodeTruncatedKey = "truncated_key"
	// ErrCodeDearmorFailed 表示 armor 输入中找不到（或无法解码）时间戳所在的 base64 行。
	ErrCodeDearmorFailed = "dearmor_failed"
)

// ErrNoTimestampLine：armor 输入读尽仍没有合格的 64 字符 base64 正文行。
var ErrNoTimestampLine = errors.New("未找到 64 字符的 base64 正文行")

// Error 是提取阶段的结构化错误（带 error_code 与文件路径）。
// 上层据此定位是哪个文件、因何种原因被排除在结果之外。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%q：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：%q", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
