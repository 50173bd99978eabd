// Package pgpkey 从 OpenPGP 密钥文件中提取创建时间戳（不做完整解析）。
//
// 只支持两种已知形态：raw 二进制包与 ASCII-armor 包裹。两条路径都只读取
// 定位 4 字节时间戳字段所需的最少字节，且单文件处理过程零堆分配——
// 扫描几百万个候选文件时，这里是唯一的热路径。
package pgpkey

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
)

const (
	// armorProbe 是 armor 头部行的起始（-----BEGIN PGP ...）。
	armorProbe = "-----"

	// rawTimestampOffset 是 v4 公钥/私钥包内创建时间字段的固定绝对偏移：
	// 1 字节包头 tag + 1 字节长度 + 1 字节版本号。该偏移来自协议的固定
	// 布局，不需要解析周围字段。
	rawTimestampOffset = 3

	// lineBufSize 给 armor 行扫描用；armor 行按协议约定不超过 66 个可见
	// 字符，4KiB 足以吞下把二进制垃圾误判成 armor 时的“超长行”。
	lineBufSize = 4096
)

// Extractor 持有跨文件复用的缓冲（一次扫描只分配一次，逐文件复用）。
// 非并发安全：与扫描器一样严格单线程使用。
type Extractor struct {
	br   *bufio.Reader
	head [5]byte
	ts   [4]byte
	b64  [8]byte
	out  [6]byte
}

func NewExtractor() *Extractor {
	return &Extractor{br: bufio.NewReaderSize(nil, lineBufSize)}
}

// FromFile 打开 path，识别编码并提取创建时间戳（已转换为主机序）。
// 文件在所有退出路径上都会关闭；提取对源文件只读，幂等。
func (e *Extractor) FromFile(path string) (domain.KeyTimestamp, domain.KeyEncoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, &Error{Code: ErrCodeOpenFailed, Path: path, Err: err}
	}
	defer f.Close()

	return e.FromReader(f, path)
}

// FromReader 与 FromFile 相同，但直接消费一个定位在偏移 0 的只读源。
// path 仅用于错误信息。
func (e *Extractor) FromReader(r io.ReadSeeker, path string) (domain.KeyTimestamp, domain.KeyEncoding, error) {
	enc, err := e.detect(r, path)
	if err != nil {
		return 0, 0, err
	}

	var ts domain.KeyTimestamp
	switch enc {
	case domain.EncodingRaw:
		ts, err = e.fromRaw(r, path)
	default:
		ts, err = e.fromArmor(r, path)
	}
	if err != nil {
		return 0, enc, err
	}
	return ts, enc, nil
}

// detect 读取开头恰好 5 个字节并与 "-----" 比较。读后游标停在偏移 5：
// raw 路径随后做绝对重定位；armor 路径按行继续向前读（被消费的前缀
// 属于头部行，剩余部分仍含 '-'，会被行启发式正常跳过）。
func (e *Extractor) detect(r io.Reader, path string) (domain.KeyEncoding, error) {
	if _, err := io.ReadFull(r, e.head[:]); err != nil {
		// 不足 5 字节的文件不可能是合法密钥。
		return 0, &Error{Code: ErrCodeReadFailed, Path: path, Err: err}
	}
	if string(e.head[:]) == armorProbe {
		return domain.EncodingArmored, nil
	}
	return domain.EncodingRaw, nil
}

// fromRaw 重定位到固定偏移并读取恰好 4 个字节（网络字节序）。
func (e *Extractor) fromRaw(r io.ReadSeeker, path string) (domain.KeyTimestamp, error) {
	if _, err := r.Seek(rawTimestampOffset, io.SeekStart); err != nil {
		return 0, &Error{Code: ErrCodeSeekFailed, Path: path, Err: err}
	}
	if _, err := io.ReadFull(r, e.ts[:]); err != nil {
		return 0, &Error{Code: ErrCodeTruncatedKey, Path: path, Err: err}
	}
	return domain.KeyTimestamp(binary.BigEndian.Uint32(e.ts[:])), nil
}
