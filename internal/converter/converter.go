package converter

import "io"

// StreamInfo 待转换输入的元信息
type StreamInfo struct {
	Extension string // 小写、含点，如 ".html"
	Filename  string
	LocalPath string
}

// Result 转换输出
type Result struct {
	Markdown string
	Title    string
}

// DocumentConverter 单一格式转换器。
// Accepts 判断能否处理该输入，且不得移动 reader 的读取位置。
type DocumentConverter interface {
	Accepts(info StreamInfo) bool
	Convert(r io.ReadSeeker, info StreamInfo) (*Result, error)
}
