// Package normalizer 将上传的异构文件规范化为内存表或日期键控映射
//
// 上传文件来自不同地区/工具且不声明编码，因此按固定顺序
// 穷举编码（UTF-8、Latin-1、Windows-1252）与分隔符（逗号、分号、制表符），
// 接受第一个成功解析且列数大于1、至少一行数据的组合。
package normalizer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/kaoqin/kaoqin/pkg/errors"
)

// Table 规范化的行式表格
// Headers 已统一小写并去除空白
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column 返回列下标，未找到返回 -1
func (t *Table) Column(names ...string) int {
	for _, name := range names {
		for i, h := range t.Headers {
			if h == name {
				return i
			}
		}
	}
	return -1
}

// Cell 返回某行某列的值（去除空白），越界返回空串
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// 候选编码，按固定顺序尝试
var encodingNames = []string{"utf-8", "latin-1", "windows-1252"}

// 候选分隔符，按固定顺序尝试
var delimiters = []rune{',', ';', '\t'}

// ReadTable 读取任意表格文件（csv/txt/xlsx/xls）并规范化
func ReadTable(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm", ".xls":
		return readSpreadsheet(path, ext)
	case ".csv", ".txt", ".tsv", "":
		return readDelimited(path)
	default:
		return nil, errors.UnsupportedFileType(path)
	}
}

// readDelimited 读取分隔文本，穷举编码与分隔符组合
func readDelimited(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "读取文件失败")
	}

	var attempts []string
	for _, encName := range encodingNames {
		text, ok := decodeBytes(raw, encName)
		if !ok {
			attempts = append(attempts, encName)
			continue
		}
		for _, delim := range delimiters {
			records, err := parseCSV(text, delim)
			if err != nil || len(records) < 2 || len(records[0]) <= 1 {
				attempts = append(attempts, fmt.Sprintf("%s/%q", encName, delim))
				continue
			}
			return newTable(records), nil
		}
	}
	return nil, errors.ParseFailed(path, attempts)
}

// decodeBytes 按指定编码解码字节流
// Latin-1 能映射任意字节，因此以 C1 控制区字节作为拒绝信号，
// 让 Windows-1252 的智能引号等字符走到下一个候选编码
func decodeBytes(raw []byte, encName string) (string, bool) {
	switch encName {
	case "utf-8":
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	case "latin-1":
		for _, b := range raw {
			if b >= 0x80 && b <= 0x9F {
				return "", false
			}
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	case "windows-1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}
	return "", false
}

// parseCSV 按指定分隔符解析文本
func parseCSV(text string, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader([]byte(text)))
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // 允许行字段数不一致
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// newTable 由原始记录构造规范化表格
func newTable(records [][]string) *Table {
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}
	return &Table{Headers: headers, Rows: records[1:]}
}

// normalizeHeader 列名统一小写并去除空白
func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// NormalizeDate 解析日期单元格并规范为 YYYY-MM-DD
// 依次尝试 YYYY-MM-DD、MM/DD/YYYY，均失败返回 false
func NormalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
