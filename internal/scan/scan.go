// Package scan 枚举源目录下的候选密钥文件。
package scan

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
)

// readDirBatch 是一次从目录读取的条目数。流式分批：百万级目录下
// 任何时刻内存里只有一批名字和一个候选的元信息。
const readDirBatch = 1024

// SkipKind 标记一个目录条目为何被排除在分类之外。
type SkipKind uint8

const (
	// SkipStatFailed：stat 失败（唯一需要向诊断流上报的跳过原因）。
	SkipStatFailed SkipKind = iota
	// SkipDir：目录条目。
	SkipDir
	// SkipEmpty：零长度文件（VanityGPG 异常退出时会留下这种空壳）。
	SkipEmpty
	// SkipHidden：'.' 开头的隐藏文件。
	SkipHidden
)

func (k SkipKind) String() string {
	switch k {
	case SkipStatFailed:
		return "stat_failed"
	case SkipDir:
		return "dir"
	case SkipEmpty:
		return "empty"
	case SkipHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Keys 枚举 dir 的直接子项（不下钻），把合格候选逐个交给 visit，
// 被排除的条目交给 skip（kind=SkipStatFailed 时 err 非 nil）。
//
// 约束（硬性）：
// - 顺序就是底层目录列表给出的顺序，不排序，调用方不得依赖
// - 单个条目的任何失败都不中断枚举
// - 只做 stat（跟随符号链接，与原工具一致），不读文件内容
// - 不跨条目累积：visit 返回后，该候选的一切都可以被丢弃
func Keys(dir string, visit func(domain.KeyFile), skip func(kind SkipKind, name string, err error)) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		ents, err := f.ReadDir(readDirBatch)
		for _, ent := range ents {
			name := ent.Name()
			path := filepath.Join(dir, name)

			fi, statErr := os.Stat(path)
			if statErr != nil {
				skip(SkipStatFailed, name, statErr)
				continue
			}
			if fi.IsDir() {
				skip(SkipDir, name, nil)
				continue
			}
			if fi.Size() == 0 {
				skip(SkipEmpty, name, nil)
				continue
			}
			if name[0] == '.' {
				skip(SkipHidden, name, nil)
				continue
			}

			visit(domain.KeyFile{AbsPath: path, Name: name, Size: fi.Size()})
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
