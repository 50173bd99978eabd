package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	// StatusReported：成功提取时间戳（report 模式的终态；filter 模式下表示不兼容、留在原地）。
	StatusReported = "reported"
	// StatusMoved：时间戳 >= 主密钥，已移动到目标目录。
	StatusMoved = "moved"
	// StatusPlanned：dry-run 下本应移动但未执行。
	StatusPlanned = "planned"
	// StatusFailed：单文件失败（打开/读取/dearmor/move 等），不影响扫描继续。
	StatusFailed = "failed"
)

const (
	ErrCodeOpenFailed    = "open_failed"
	ErrCodeReadFailed    = "read_failed"
	ErrCodeSeekFailed    = "seek_failed"
	ErrCodeTruncatedKey  = "truncated_key"
	ErrCodeDearmorFailed = "dearmor_failed"
	ErrCodeStatFailed    = "stat_failed"
	ErrCodeMoveFailed    = "move_failed"
	ErrCodeUsageInvalid  = "usage_invalid"
	ErrCodePrimaryKey    = "primary_key_failed"
	ErrCodeIOFailed      = "io_failed"
)

// RunReport 是对外稳定输出（--json 时的 stdout JSON）的结构。
//
// 注意：Items 只在调用方要求收集时填充（--json）；默认人读模式下结果
// 逐条经 Observer 流出，报表只保留 Summary——否则百万级扫描会把每条
// 结果都压进内存，违背“扫描期间不跨文件累积”的约束。
type RunReport struct {
	SourceDir string `json:"source_dir"`
	DestDir   string `json:"dest_dir,omitempty"`
	DryRun    bool   `json:"dry_run"`

	// PrimaryTimestamp 仅 filter 模式非零（比较阈值，主密钥的创建时间）。
	PrimaryTimestamp KeyTimestamp `json:"primary_timestamp,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []FileResult  `json:"items"`
}

type ReportSummary struct {
	Reported int `json:"reported"`
	Moved    int `json:"moved"`
	Planned  int `json:"planned"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// FileResult 是单个候选文件的结果（成功带时间戳，失败带 error_code/error_msg）。
type FileResult struct {
	Name string `json:"name"`
	Src  string `json:"src"`
	Dst  string `json:"dst,omitempty"`

	Timestamp KeyTimestamp `json:"timestamp,omitempty"`
	Encoding  string       `json:"encoding,omitempty"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 name 字典序（目录枚举顺序不保证，输出必须确定）
// 3) summary 的 item 相关字段由 items 重算（Skipped 由扫描器计数，保留原值）
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Name < r.Items[j].Name
	})

	if len(r.Items) == 0 {
		return
	}
	s := ReportSummary{Skipped: r.Summary.Skipped}
	for _, it := range r.Items {
		switch it.Status {
		case StatusReported:
			s.Reported++
		case StatusMoved:
			s.Moved++
		case StatusPlanned:
			s.Planned++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
