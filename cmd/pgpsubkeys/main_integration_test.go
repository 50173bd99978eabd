package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("读取 cwd 失败：%v", err)
	}
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeRawKey(t *testing.T, dir, name string, ts uint32) string {
	t.Helper()
	b := make([]byte, 64)
	b[0] = 0x98
	b[1] = 62
	b[2] = 4
	binary.BigEndian.PutUint32(b[3:7], ts)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入密钥失败：%v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "./cmd/pgpsubkeys"}, args...)...)
	cmd.Dir = repoRoot(t)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if ee, ok := err.(*exec.ExitError); ok {
		code = ee.ExitCode()
	} else if err != nil {
		t.Fatalf("命令执行失败：%v\nstderr=%s", err, stderr.String())
	}
	return stdout.String(), stderr.String(), code
}

// 锁定对外契约：--json 时 stdout 只能是一个 RunReport JSON。
func TestCLI_JSON_StdoutOnlyRunReport(t *testing.T) {
	src := t.TempDir()
	writeRawKey(t, src, "a.pgp", 123)

	stdout, stderr, code := runCLI(t, "--json", src)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d\nstderr=%s", code, stderr)
	}

	var rr domain.RunReport
	if err := json.Unmarshal([]byte(stdout), &rr); err != nil {
		t.Fatalf("stdout 不是合法的 RunReport JSON：%v\nstdout=%q", err, stdout)
	}
	if strings.Contains(stdout, "Timestamp:") {
		t.Fatalf("--json 模式 stdout 不应混入时间戳行：%q", stdout)
	}
	if rr.Summary.Reported != 1 || len(rr.Items) != 1 || rr.Items[0].Timestamp != 123 {
		t.Fatalf("报表内容不符合预期：%+v", rr)
	}
	if !strings.Contains(stderr, "完成：reported=1") {
		t.Fatalf("stderr 缺少完成摘要：%q", stderr)
	}
}

func TestCLI_ReportMode_TimestampLines(t *testing.T) {
	src := t.TempDir()
	writeRawKey(t, src, "a.pgp", 1700000000)

	stdout, _, code := runCLI(t, src)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d", code)
	}
	if stdout != "Timestamp: 1700000000\n" {
		t.Fatalf("stdout 不符合契约：%q", stdout)
	}
}

func TestCLI_FilterMode_MovesAndExitsZero(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	primary := writeRawKey(t, t.TempDir(), "primary.pgp", 1700000000)
	writeRawKey(t, src, "newer.pgp", 1700000001)

	stdout, stderr, code := runCLI(t, src, primary, dst)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d\nstderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Timestamp: 1700000001") {
		t.Fatalf("stdout 缺少时间戳行：%q", stdout)
	}
	if !strings.Contains(stderr, "主密钥时间戳：1700000000") {
		t.Fatalf("stderr 缺少主密钥时间戳：%q", stderr)
	}
	if _, err := os.Stat(filepath.Join(dst, "newer.pgp")); err != nil {
		t.Fatalf("兼容密钥应已移动：%v", err)
	}
}

func TestCLI_PrimaryKeyUnreadable_Exits1(t *testing.T) {
	src := t.TempDir()
	writeRawKey(t, src, "a.pgp", 1)

	_, stderr, code := runCLI(t, src, filepath.Join(t.TempDir(), "缺失.pgp"), t.TempDir())
	if code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if !strings.Contains(stderr, "致命错误") || !strings.Contains(stderr, "primary_key_failed") {
		t.Fatalf("stderr 应说明主密钥失败：%q", stderr)
	}
}

func TestCLI_WrongArgCount_Exits1WithUsage(t *testing.T) {
	_, stderr, code := runCLI(t, "/a", "/b")
	if code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if !strings.Contains(stderr, "用法") {
		t.Fatalf("stderr 应包含用法说明：%q", stderr)
	}
}
