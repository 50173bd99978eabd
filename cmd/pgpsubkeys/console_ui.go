package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/app/run"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/config"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/scan"
)

var _ run.Observer = (*consoleUI)(nil)

// consoleUI 把 run 的事件流变成终端输出。
//
// 输出契约：
// - stdout：每个成功候选一行 "Timestamp: <N>"（--json 时完全静默，
//   JSON 由 main 在结束后输出）
// - stderr：诊断（失败、stat 错误、移动记录）与交互进度
// - 进度只在交互终端（stderr 为 TTY）启用，且有节流：百万级扫描时
//   逐文件打印进度本身就会成为瓶颈
type consoleUI struct {
	out  io.Writer
	errw io.Writer

	json        bool
	interactive bool

	startedAt    time.Time
	lastProgress time.Time

	done    int
	moved   int
	failed  int
	skipped int
}

const progressInterval = 2 * time.Second

func newConsoleUI(out, errw io.Writer, jsonMode, interactive bool) *consoleUI {
	return &consoleUI{out: out, errw: errw, json: jsonMode, interactive: interactive}
}

func (u *consoleUI) OnStart(eff config.EffectiveConfig) {
	u.startedAt = time.Now()
	u.lastProgress = u.startedAt

	if !u.interactive {
		return
	}
	mode := "report"
	if eff.Filter {
		mode = "filter"
		if eff.DryRun {
			mode = "filter (dry-run，不移动)"
		}
	}
	fmt.Fprintf(u.errw, "[%s] pgpsubkeys (%s)\n", u.startedAt.Format("15:04:05"), mode)
	fmt.Fprintf(u.errw, "  source: %s\n", eff.SourceDir)
	if eff.Filter {
		fmt.Fprintf(u.errw, "  primary: %s\n", eff.PrimaryKeyPath)
		fmt.Fprintf(u.errw, "  dest: %s\n", eff.DestDir)
	}
}

func (u *consoleUI) OnPrimary(ts domain.KeyTimestamp) {
	fmt.Fprintf(u.errw, "主密钥时间戳：%d\n", ts)
}

func (u *consoleUI) OnSkip(kind scan.SkipKind, name string, err error) {
	if kind == scan.SkipStatFailed {
		u.failed++
		fmt.Fprintf(u.errw, "无法 stat：%s：%v\n", name, err)
		return
	}
	u.skipped++
}

func (u *consoleUI) OnFileDone(res domain.FileResult) {
	u.done++

	switch res.Status {
	case domain.StatusFailed:
		u.failed++
		fmt.Fprintf(u.errw, "%s %s：%s\n", res.Src, res.ErrorCode, res.ErrorMsg)
	case domain.StatusMoved:
		u.moved++
		u.timestampLine(res)
		fmt.Fprintf(u.errw, "移动兼容子密钥：%s -> %s\n", res.Src, res.Dst)
	case domain.StatusPlanned:
		u.timestampLine(res)
		fmt.Fprintf(u.errw, "（dry-run）将移动：%s -> %s\n", res.Src, res.Dst)
	default:
		u.timestampLine(res)
	}

	u.maybeProgress()
}

func (u *consoleUI) OnDone(sum domain.ReportSummary, dur time.Duration) {
	total := sum.Reported + sum.Moved + sum.Planned + sum.Failed + sum.Skipped
	fmt.Fprintf(u.errw, "完成：reported=%d moved=%d planned=%d failed=%d skipped=%d（共 %s 个条目，耗时 %s）\n",
		sum.Reported, sum.Moved, sum.Planned, sum.Failed, sum.Skipped,
		humanize.Comma(int64(total)), dur.Round(time.Millisecond),
	)
}

// timestampLine 输出 stdout 的时间戳行（对外稳定契约，与原工具一致）。
func (u *consoleUI) timestampLine(res domain.FileResult) {
	if u.json {
		return
	}
	fmt.Fprintf(u.out, "Timestamp: %d\n", res.Timestamp)
}

func (u *consoleUI) maybeProgress() {
	if !u.interactive {
		return
	}
	now := time.Now()
	if now.Sub(u.lastProgress) < progressInterval {
		return
	}
	u.lastProgress = now
	fmt.Fprintf(u.errw, "进度：已处理 %s（moved=%s failed=%s skipped=%s，%s）\n",
		humanize.Comma(int64(u.done)),
		humanize.Comma(int64(u.moved)),
		humanize.Comma(int64(u.failed)),
		humanize.Comma(int64(u.skipped)),
		now.Sub(u.startedAt).Round(time.Second),
	)
}
