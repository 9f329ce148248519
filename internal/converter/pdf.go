package converter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfConverter PDF 文本抽取转换器。
// 只抽取文本层，不做版面还原；无文本层的扫描件得到空 Markdown 而非报错。
type pdfConverter struct{}

func (pdfConverter) Accepts(info StreamInfo) bool {
	return info.Extension == ".pdf"
}

// Convert 通过 LocalPath 重新打开文件：PDF 解析需要随机访问与文件大小。
func (pdfConverter) Convert(_ io.ReadSeeker, info StreamInfo) (*Result, error) {
	f, r, err := pdf.Open(info.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("打开 PDF 失败: %w", err)
	}
	defer f.Close()

	text, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("抽取 PDF 文本失败: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return nil, fmt.Errorf("读取 PDF 文本失败: %w", err)
	}

	return &Result{
		Markdown: buf.String(),
		Title:    strings.TrimSuffix(info.Filename, info.Extension),
	}, nil
}
