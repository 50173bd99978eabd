// Package run 驱动一次完整扫描：枚举候选、提取时间戳、按阈值比较并移动。
package run

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/config"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/infra/fsx"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/pgpkey"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/scan"
)

// FatalError 表示整次运行无法继续的错误。只有两种情形致命：
// filter 模式下主密钥不可用（没有阈值就没有比较可言），以及源目录
// 本身无法枚举。单文件失败永远不在此列。
type FatalError struct {
	Code string
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s：%v", e.Code, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal 判断 err 是否为 *FatalError。
func IsFatal(err error) bool {
	var e *FatalError
	return errors.As(err, &e)
}

// Execute 执行一次扫描并返回 RunReport。除 FatalError 外的一切错误都
// 降级为单文件失败：记入结果、发给 Observer，扫描继续。
//
// 执行模型（硬约束）：严格单线程、逐文件串行，文件间除只读阈值外无共享
// 状态；中途不支持取消（进程终止即止，已移动的文件保持已移动——操作
// 不是事务性的，部分完成是可接受的既定结果）。
func Execute(eff config.EffectiveConfig, obs Observer) (domain.RunReport, error) {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		SourceDir: eff.SourceDir,
		DestDir:   eff.DestDir,
		DryRun:    eff.DryRun,
		StartedAt: started,
	}

	// Extractor 的缓冲一次扫描只分配一次，随后逐文件复用。
	ex := pgpkey.NewExtractor()

	if eff.Filter {
		ts, _, err := ex.FromFile(eff.PrimaryKeyPath)
		if err != nil {
			rr.FinishedAt = time.Now().UTC()
			rr.Finalize()
			return rr, &FatalError{Code: domain.ErrCodePrimaryKey, Err: err}
		}
		rr.PrimaryTimestamp = ts
		if obs != nil {
			obs.OnPrimary(ts)
		}
	}

	// --json 时才逐条收集 items；默认模式流式发出，报表只留摘要。
	collect := eff.JSON

	err := scan.Keys(eff.SourceDir,
		func(kf domain.KeyFile) {
			res := classifyOne(eff, ex, kf, rr.PrimaryTimestamp)
			switch res.Status {
			case domain.StatusReported:
				rr.Summary.Reported++
			case domain.StatusMoved:
				rr.Summary.Moved++
			case domain.StatusPlanned:
				rr.Summary.Planned++
			case domain.StatusFailed:
				rr.Summary.Failed++
			}
			if collect {
				rr.Items = append(rr.Items, res)
			}
			if obs != nil {
				obs.OnFileDone(res)
			}
		},
		func(kind scan.SkipKind, name string, skipErr error) {
			if kind == scan.SkipStatFailed {
				rr.Summary.Failed++
				if collect {
					rr.Items = append(rr.Items, domain.FileResult{
						Name:      name,
						Src:       filepath.Join(eff.SourceDir, name),
						Status:    domain.StatusFailed,
						ErrorCode: domain.ErrCodeStatFailed,
						ErrorMsg:  skipErr.Error(),
					})
				}
			} else {
				rr.Summary.Skipped++
			}
			if obs != nil {
				obs.OnSkip(kind, name, skipErr)
			}
		},
	)

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()

	if err != nil {
		return rr, &FatalError{Code: domain.ErrCodeIOFailed, Err: fmt.Errorf("无法枚举源目录 %q：%w", eff.SourceDir, err)}
	}

	if obs != nil {
		obs.OnDone(rr.Summary, rr.FinishedAt.Sub(rr.StartedAt))
	}
	return rr, nil
}

// classifyOne 处理单个候选：提取时间戳，filter 模式下与阈值比较并
// （非 dry-run 时）移动。任何失败都体现在返回值里，绝不向上抛。
func classifyOne(eff config.EffectiveConfig, ex *pgpkey.Extractor, kf domain.KeyFile, primary domain.KeyTimestamp) domain.FileResult {
	res := domain.FileResult{Name: kf.Name, Src: kf.AbsPath}

	ts, enc, err := ex.FromFile(kf.AbsPath)
	if err != nil {
		res.Status = domain.StatusFailed
		res.ErrorCode = extractErrCode(err)
		res.ErrorMsg = err.Error()
		return res
	}
	res.Timestamp = ts
	res.Encoding = enc.String()

	// 与 GnuPG 实测一致：子密钥时间戳等于主密钥时间戳也有效，所以是 >=。
	if !eff.Filter || ts < primary {
		res.Status = domain.StatusReported
		return res
	}

	if eff.DryRun {
		res.Status = domain.StatusPlanned
		res.Dst = filepath.Join(eff.DestDir, kf.Name)
		return res
	}

	dst, err := fsx.MoveIntoDir(kf.AbsPath, eff.DestDir)
	if err != nil {
		// 移动失败：文件留在原地，记失败后继续扫描。
		res.Status = domain.StatusFailed
		res.ErrorCode = domain.ErrCodeMoveFailed
		res.ErrorMsg = err.Error()
		return res
	}
	res.Status = domain.StatusMoved
	res.Dst = dst
	return res
}

func extractErrCode(err error) string {
	if c := pgpkey.Code(err); c != "" {
		return c
	}
	return domain.ErrCodeIOFailed
}
