package normalizer

import (
	"bytes"
	"os"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/kaoqin/kaoqin/pkg/errors"
)

// 读取 .xls 时单表最大行数上限
const maxXLSRows = 100000

// readSpreadsheet 读取 Excel 工作簿的第一个工作表
func readSpreadsheet(path, ext string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "读取文件失败")
	}

	var rows [][]string
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, errors.ParseFailed(path, []string{"xls"})
		}
		if workbook.NumSheets() == 0 {
			return nil, errors.FormatInvalid("工作簿中没有工作表", nil)
		}
		rows = workbook.ReadAllCells(maxXLSRows)
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.ParseFailed(path, []string{"xlsx"})
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, errors.FormatInvalid("工作簿中没有工作表", nil)
		}
		rows, err = file.GetRows(sheetName)
		if err != nil {
			return nil, errors.ParseFailed(path, []string{"xlsx"})
		}
	}

	if len(rows) < 2 || len(rows[0]) <= 1 {
		return nil, errors.FormatInvalid("工作表为空或仅有单列", nil)
	}
	return newTable(rows), nil
}
