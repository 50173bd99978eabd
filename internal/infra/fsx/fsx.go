// Package fsx 封装移动密钥文件用到的最少文件系统操作。
// 本工具对文件系统的唯一改动是 rename：密钥内容永远原样不动。
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// 通过可替换的函数指针，让测试能稳定模拟 EXDEV 等错误。
var renameFunc = os.Rename

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// 目标目录与源目录不在同一文件系统时出现；本工具不做隐式 copy+delete，
// 该文件留在原地，由扫描按单文件失败继续。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q；请确保源与目标在同一文件系统：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice 判断 err 是否为跨盘（EXDEV）错误。
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 os.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// MoveIntoDir 把 src 移进 dstDir，保留原文件名；返回最终路径。
// 失败时源文件保持原位（rename 的原子性保证不会出现半移动状态）。
func MoveIntoDir(src, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}
