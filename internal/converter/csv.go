package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvConverter CSV 转 Markdown 表格。
// 第一行视为表头，后续行为数据行；空文件输出空字符串。
type csvConverter struct{}

func (csvConverter) Accepts(info StreamInfo) bool {
	return info.Extension == ".csv"
}

func (csvConverter) Convert(r io.ReadSeeker, info StreamInfo) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 容忍列数不一致

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(rows) == 0 {
		return &Result{Markdown: ""}, nil
	}

	var b strings.Builder
	writeRow(&b, rows[0])

	// 分隔行
	b.WriteString("|")
	for range rows[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range rows[1:] {
		writeRow(&b, row)
	}

	return &Result{
		Markdown: b.String(),
		Title:    strings.TrimSuffix(info.Filename, info.Extension),
	}, nil
}

func writeRow(b *strings.Builder, row []string) {
	b.WriteString("|")
	for _, cell := range row {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
