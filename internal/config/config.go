// Package config 把 CLI 参数合并、校验为实现层直接消费的最终配置。
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ErrCodeUsage 表示参数形态不合法（数量、空值、冲突的开关）。
	ErrCodeUsage = "usage_invalid"
)

// CLIArgs 是 CLI 暴露的全部入口：1 个或 3 个位置参数 + 两个开关。
type CLIArgs struct {
	// Positional：<SOURCE_DIR> 或 <SOURCE_DIR> <PRIMARY_KEY> <DEST_DIR>。
	Positional []string

	JSON   bool
	DryRun bool
}

// EffectiveConfig 是校验并规范化后的最终配置（实现层不再做二次判断）。
type EffectiveConfig struct {
	SourceDir string

	// Filter=true 时以下两项非空：主密钥路径与目标目录。
	Filter         bool
	PrimaryKeyPath string
	DestDir        string

	// JSON：stdout 只输出一个 RunReport JSON（此时才收集逐文件 items）。
	JSON bool
	// DryRun：filter 模式下只报告本应移动的文件，不执行 rename。
	DryRun bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
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

// Effective 校验 CLI 参数并得出最终配置。
//
// 约定（固定）：
// - 1 个位置参数：report 模式（只打印时间戳）
// - 3 个位置参数：filter 模式（按主密钥时间戳过滤并移动）
// - 其他数量一律 usage 错误
// - --dry-run 只在 filter 模式有意义，report 模式给出即报错
func Effective(cli CLIArgs) (EffectiveConfig, error) {
	for i, p := range cli.Positional {
		if strings.TrimSpace(p) == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeUsage, Err: fmt.Errorf("第 %d 个位置参数为空", i+1)}
		}
	}

	eff := EffectiveConfig{JSON: cli.JSON, DryRun: cli.DryRun}

	switch len(cli.Positional) {
	case 1:
		eff.SourceDir = filepath.Clean(cli.Positional[0])
		if cli.DryRun {
			return EffectiveConfig{}, &Error{Code: ErrCodeUsage, Err: errors.New("--dry-run 仅在 filter 模式（3 个位置参数）下有效")}
		}
	case 3:
		eff.SourceDir = filepath.Clean(cli.Positional[0])
		eff.PrimaryKeyPath = filepath.Clean(cli.Positional[1])
		eff.DestDir = filepath.Clean(cli.Positional[2])
		eff.Filter = true
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeUsage, Err: fmt.Errorf("需要 1 或 3 个位置参数，实际 %d 个", len(cli.Positional))}
	}

	return eff, nil
}
