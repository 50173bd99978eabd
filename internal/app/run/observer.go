package run

import (
	"time"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/config"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/scan"
)

// Observer 把“逐文件结果/跳过/摘要”从核心扫描流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（stdout 的时间戳行与 JSON 契约都由 CLI 决定）。
// - 扫描严格单线程：事件按扫描顺序串行到达，无需并发防护。
type Observer interface {
	// OnStart 在 Execute 开始时调用（应尽量早，保证用户第一时间看到输出）。
	OnStart(eff config.EffectiveConfig)
	// OnPrimary 在 filter 模式成功读出主密钥时间戳后调用。
	OnPrimary(ts domain.KeyTimestamp)
	// OnSkip 在目录条目未进入分类时调用（kind=SkipStatFailed 时 err 非 nil）。
	OnSkip(kind scan.SkipKind, name string, err error)
	// OnFileDone 在单个候选分类（及可能的移动）完成时调用。
	OnFileDone(res domain.FileResult)
	// OnDone 在扫描结束时调用一次，带最终摘要与总耗时。
	OnDone(sum domain.ReportSummary, dur time.Duration)
}
