package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/app/run"
	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/config"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	for _, a := range args {
		if isHelp(a) {
			printUsage(stdout)
			return 0
		}
	}

	ca, err := parseArgs(args)
	if err == nil {
		var eff config.EffectiveConfig
		eff, err = config.Effective(ca)
		if err == nil {
			return execute(eff, stdout, stderr)
		}
	}

	fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
	printUsage(stderr)
	return 1
}

func execute(eff config.EffectiveConfig, stdout, stderr io.Writer) int {
	ui := newConsoleUI(stdout, stderr, eff.JSON, isTTY(os.Stderr))

	rr, err := run.Execute(eff, ui)
	if err != nil {
		// 只有主密钥不可用或源目录无法枚举会走到这里。
		fmt.Fprintf(stderr, "致命错误：%v\n", err)
		return 1
	}

	if eff.JSON {
		// stdout 必须且仅输出一个 RunReport JSON（诊断/摘要全部走 stderr）。
		enc := json.NewEncoder(stdout)
		_ = enc.Encode(rr)
	}

	// 单文件失败不改变退出码：扫描正常完成即为 0。
	return 0
}

func parseArgs(args []string) (config.CLIArgs, error) {
	var ca config.CLIArgs
	for _, a := range args {
		switch {
		case a == "--json":
			ca.JSON = true
		case a == "--dry-run":
			ca.DryRun = true
		case strings.HasPrefix(a, "-"):
			return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			ca.Positional = append(ca.Positional, a)
		}
	}
	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  pgpsubkeys <SOURCE_DIR> [<PRIMARY_PGP_KEY> <DEST_DIR>] [--json] [--dry-run]

只给源目录时，逐个打开其中的 PGP 密钥并把创建时间戳打印到 stdout。
再给主密钥与目标目录时，把创建时间戳大于等于主密钥的密钥文件移动到
目标目录（时间戳相等的子密钥同样有效，按 >= 判定）。

同时支持 raw 与 ASCII-armor 两种 PGP 密钥编码。

参数：
  --json      stdout 只输出一个 RunReport JSON（含逐文件结果）
  --dry-run   只报告将要移动的文件，不执行移动（仅 filter 模式有效）
  -h, --help  显示帮助
`)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
