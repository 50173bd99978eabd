package pgpkey

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"

	"github.com/ElliotKillick/vanity-pgp-subkey-tools/internal/domain"
)

const (
	// armorBodyLineLen 是 GnuPG 与 Sequoia 输出的 base64 正文行宽。
	// 已知局限：RFC 4880 允许到 76，本工具只针对这两家实现，不做泛化。
	armorBodyLineLen = 64

	// v4 密钥包的固定布局决定：首个完整正文行中，时间戳字段从第 4 个
	// base64 字符开始，占 6 个字符（补两个 '=' 后恰好解码出 4 字节）。
	timestampB64Offset = 4
	timestampB64Chars  = 6
)

// fromArmor 逐行扫描 armor 文本，定位首个完整 base64 正文行并就地解码
// 时间戳字段。
//
// 行启发式（与已知 armor 方言绑定，刻意不放宽）：
// - 含 '-' 的行：BEGIN/END 头尾定界行，跳过
// - 含 ':' 的行：Comment:/Version: 等头部字段行，跳过
// - 其余行中第一个长度恰为 64+换行 的行即首个正文行
// 即使一个 64 字符的行恰好含 '-' 或 ':' 也会被跳过——这是启发式的
// 已记录脆弱点，不是缺陷修复的对象。
func (e *Extractor) fromArmor(r io.Reader, path string) (domain.KeyTimestamp, error) {
	e.br.Reset(r)

	for {
		line, err := e.br.ReadSlice('\n')

		if errors.Is(err, bufio.ErrBufferFull) {
			// 超过缓冲的“行”只可能是误判成 armor 的二进制垃圾：整行丢弃。
			if err = e.discardLine(); err != nil {
				return 0, &Error{Code: ErrCodeDearmorFailed, Path: path, Err: ErrNoTimestampLine}
			}
			continue
		}

		if qualifies(line) {
			return e.decodeTimestamp(line, path)
		}

		if err != nil {
			// 读尽（或读错）仍未出现合格正文行。
			return 0, &Error{Code: ErrCodeDearmorFailed, Path: path, Err: ErrNoTimestampLine}
		}
	}
}

// qualifies 判定 line（含结尾 '\n'，指向读缓冲的切片）是否为首个完整正文行。
func qualifies(line []byte) bool {
	if len(line) != armorBodyLineLen+1 || line[armorBodyLineLen] != '\n' {
		return false
	}
	if bytes.IndexByte(line, '-') >= 0 || bytes.IndexByte(line, ':') >= 0 {
		return false
	}
	return true
}

// decodeTimestamp 把正文行第 [4,10) 个 base64 字符拷进固定栈缓冲、补上
// "==" 后解码出 4 字节。拷贝而非原地改写：读缓冲归 bufio 所有，不能动
// （原实现直接在行缓冲里覆盖出 padding，这里改为等价的零堆分配拷贝）。
func (e *Extractor) decodeTimestamp(line []byte, path string) (domain.KeyTimestamp, error) {
	copy(e.b64[:timestampB64Chars], line[timestampB64Offset:timestampB64Offset+timestampB64Chars])
	e.b64[timestampB64Chars] = '='
	e.b64[timestampB64Chars+1] = '='

	// 6 个数据字符 + 2 个 padding 解码出恰好 4 字节（第 4 字节的低 4 位
	// 由 padding 语义丢弃）。Decode 写入调用方缓冲，无堆分配。
	n, err := base64.StdEncoding.Decode(e.out[:], e.b64[:])
	if err != nil || n != 4 {
		return 0, &Error{Code: ErrCodeDearmorFailed, Path: path, Err: err}
	}

	return domain.KeyTimestamp(binary.BigEndian.Uint32(e.out[:4])), nil
}

// discardLine 消费当前超长行直到换行或 EOF。
func (e *Extractor) discardLine() error {
	for {
		_, err := e.br.ReadSlice('\n')
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return err
		}
	}
}
