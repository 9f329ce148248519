package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkItDown 文档转 Markdown 引擎。
// 按注册顺序选择第一个 Accepts 的转换器；对调用方而言，
// 具体由哪个转换器处理以及失败原因都是不透明的一个错误。
type MarkItDown struct {
	converters []DocumentConverter
}

// New 创建引擎并注册内置转换器（顺序即匹配优先级）
func New() *MarkItDown {
	return &MarkItDown{
		converters: []DocumentConverter{
			&pdfConverter{},
			&htmlConverter{},
			&csvConverter{},
			&textConverter{},
		},
	}
}

// Register 追加自定义转换器
func (m *MarkItDown) Register(c DocumentConverter) {
	m.converters = append(m.converters, c)
}

// ConvertFile 把本地文件转换为 Markdown 文本
func (m *MarkItDown) ConvertFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()

	info := StreamInfo{
		Extension: strings.ToLower(filepath.Ext(path)),
		Filename:  filepath.Base(path),
		LocalPath: path,
	}

	for _, c := range m.converters {
		if !c.Accepts(info) {
			continue
		}
		res, err := c.Convert(f, info)
		if err != nil {
			return nil, fmt.Errorf("转换文件 %s 失败: %w", info.Filename, err)
		}
		return res, nil
	}

	return nil, fmt.Errorf("不支持的文件格式: %s", info.Extension)
}
