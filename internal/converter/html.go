package converter

import (
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// htmlConverter HTML 转 Markdown，转换逻辑委托给 html-to-markdown 库。
type htmlConverter struct{}

func (htmlConverter) Accepts(info StreamInfo) bool {
	return info.Extension == ".html" || info.Extension == ".htm"
}

func (htmlConverter) Convert(r io.ReadSeeker, info StreamInfo) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取 HTML 失败: %w", err)
	}

	conv := md.NewConverter("", true, nil)
	markdown, err := conv.ConvertString(string(data))
	if err != nil {
		return nil, fmt.Errorf("HTML 转 Markdown 失败: %w", err)
	}

	return &Result{
		Markdown: markdown,
		Title:    strings.TrimSuffix(info.Filename, info.Extension),
	}, nil
}
