package domain

// KeyTimestamp 是 OpenPGP 密钥的创建时间（Unix 秒，uint32）。
// 文件内为网络字节序（big-endian），提取时统一转换到主机序；
// 除此之外不建模任何密钥身份信息（指纹、算法等一概不需要）。
type KeyTimestamp uint32

// KeyEncoding 标记单个密钥文件的编码形态，仅用于选择提取策略，不持久化。
type KeyEncoding uint8

const (
	// EncodingRaw 表示二进制 OpenPGP 包（文件首字节不是 armor 头）。
	EncodingRaw KeyEncoding = iota
	// EncodingArmored 表示 ASCII-armor 包裹（-----BEGIN PGP ... 开头）。
	EncodingArmored
)

func (e KeyEncoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingArmored:
		return "armored"
	default:
		return "unknown"
	}
}

// KeyFile 描述一次扫描得到的候选密钥文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - 仅在判定“是否值得提取”时使用：非空、非目录、非隐藏的普通文件
// - 生命周期只有一次分类调用：扫描器一次最多持有一个 KeyFile，不跨文件累积
type KeyFile struct {
	AbsPath string
	Name    string
	Size    int64
}
