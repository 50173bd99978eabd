package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/scan"
)

func TestConsoleUI_TimestampLineOnStdout(t *testing.T) {
	var out, errw bytes.Buffer
	ui := newConsoleUI(&out, &errw, false, false)

	ui.OnFileDone(domain.FileResult{
		Name: "a.pgp", Src: "/keys/a.pgp",
		Timestamp: 1700000000, Encoding: "raw",
		Status: domain.StatusReported,
	})

	if out.String() != "Timestamp: 1700000000\n" {
		t.Fatalf("stdout 不符合契约：%q", out.String())
	}
	if errw.Len() != 0 {
		t.Fatalf("成功条目不应产生诊断输出：%q", errw.String())
	}
}

func TestConsoleUI_JSONModeSilencesStdout(t *testing.T) {
	var out, errw bytes.Buffer
	ui := newConsoleUI(&out, &errw, true, false)

	ui.OnFileDone(domain.FileResult{Name: "a.pgp", Timestamp: 42, Status: domain.StatusReported})
	ui.OnFileDone(domain.FileResult{
		Name: "b.pgp", Src: "/keys/b.pgp", Timestamp: 43,
		Status: domain.StatusMoved, Dst: "/dst/b.pgp",
	})

	if out.Len() != 0 {
		t.Fatalf("--json 模式下 stdout 必须静默：%q", out.String())
	}
	// 诊断照常走 stderr。
	if !strings.Contains(errw.String(), "移动兼容子密钥") {
		t.Fatalf("移动记录应在 stderr：%q", errw.String())
	}
}

func TestConsoleUI_FailureGoesToStderr(t *testing.T) {
	var out, errw bytes.Buffer
	ui := newConsoleUI(&out, &errw, false, false)

	ui.OnFileDone(domain.FileResult{
		Name: "bad.asc", Src: "/keys/bad.asc",
		Status: domain.StatusFailed, ErrorCode: domain.ErrCodeDearmorFailed,
		ErrorMsg: "未找到 64 字符的 base64 正文行",
	})

	if out.Len() != 0 {
		t.Fatalf("失败条目不应有 stdout 输出：%q", out.String())
	}
	if !strings.Contains(errw.String(), "dearmor_failed") || !strings.Contains(errw.String(), "/keys/bad.asc") {
		t.Fatalf("诊断应指明文件与原因：%q", errw.String())
	}
}

func TestConsoleUI_StatFailureReported(t *testing.T) {
	var out, errw bytes.Buffer
	ui := newConsoleUI(&out, &errw, false, false)

	ui.OnSkip(scan.SkipStatFailed, "dangling", &testErr{})
	if !strings.Contains(errw.String(), "无法 stat") {
		t.Fatalf("stat 失败应上报：%q", errw.String())
	}

	// 目录/空文件/隐藏文件静默跳过（只计数）。
	errw.Reset()
	ui.OnSkip(scan.SkipEmpty, "empty.pgp", nil)
	ui.OnSkip(scan.SkipHidden, ".h", nil)
	if errw.Len() != 0 {
		t.Fatalf("普通跳过不应有输出：%q", errw.String())
	}
	if ui.skipped != 2 {
		t.Fatalf("期望 skipped=2，实际 %d", ui.skipped)
	}
}

func TestConsoleUI_DoneSummary(t *testing.T) {
	var out, errw bytes.Buffer
	ui := newConsoleUI(&out, &errw, false, false)

	ui.OnDone(domain.ReportSummary{Reported: 2, Moved: 1, Failed: 1, Skipped: 3}, 1500*time.Millisecond)
	got := errw.String()
	if !strings.Contains(got, "完成：reported=2 moved=1 planned=0 failed=1 skipped=3") {
		t.Fatalf("摘要行不符合预期：%q", got)
	}
}

type testErr struct{}

func (*testErr) Error() string { return "stat 被拒" }

func TestParseArgs_FlagsAndPositional(t *testing.T) {
	ca, err := parseArgs([]string{"/src", "--json", "/primary.pgp", "--dry-run", "/dst"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !ca.JSON || !ca.DryRun {
		t.Fatalf("开关未识别：%+v", ca)
	}
	want := []string{"/src", "/primary.pgp", "/dst"}
	if len(ca.Positional) != 3 || ca.Positional[0] != want[0] || ca.Positional[1] != want[1] || ca.Positional[2] != want[2] {
		t.Fatalf("位置参数不符合预期：%v", ca.Positional)
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	if _, err := parseArgs([]string{"/src", "--verbose"}); err == nil {
		t.Fatalf("未知参数应报错")
	}
}

func TestRealMain_UsageErrorExits1(t *testing.T) {
	var out, errw bytes.Buffer
	if code := realMain([]string{"/a", "/b"}, &out, &errw); code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if !strings.Contains(errw.String(), "用法") {
		t.Fatalf("usage 应打印到 stderr：%q", errw.String())
	}
}

func TestRealMain_HelpExits0(t *testing.T) {
	var out, errw bytes.Buffer
	if code := realMain([]string{"--help"}, &out, &errw); code != 0 {
		t.Fatalf("期望退出码 0")
	}
	if !strings.Contains(out.String(), "用法") {
		t.Fatalf("帮助应打印到 stdout：%q", out.String())
	}
}
