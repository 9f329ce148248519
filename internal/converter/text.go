package converter

import (
	"fmt"
	"io"
	"strings"
)

// textConverter 纯文本转换器。
// 纯文本本身就是合法的 Markdown，直接透传内容。
type textConverter struct{}

var textExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".log":      true,
}

func (textConverter) Accepts(info StreamInfo) bool {
	return textExtensions[info.Extension]
}

func (textConverter) Convert(r io.ReadSeeker, info StreamInfo) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取文本失败: %w", err)
	}
	return &Result{
		Markdown: string(data),
		Title:    strings.TrimSuffix(info.Filename, info.Extension),
	}, nil
}
