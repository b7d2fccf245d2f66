package normalizer

import (
	"encoding/json"
	"os"

	"github.com/kaoqin/kaoqin/pkg/errors"
	"github.com/kaoqin/kaoqin/pkg/model"
)

// ReadStructured 读取日期键控的结构化考勤文件 (date -> email -> fact)
//
// 按固定编码顺序尝试解码；解码成功后校验结构：
// 顶层每个值必须是映射，否则返回 FORMAT_INVALID 而不是猜测意图。
func ReadStructured(path string) (map[string]model.DateFacts, error) {
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

		var generic map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &generic); err != nil {
			attempts = append(attempts, encName)
			continue
		}

		// 结构校验：每个顶层值都必须是映射
		for date, value := range generic {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(value, &inner); err != nil {
				return nil, errors.FormatInvalid("结构化考勤文件格式不符: 顶层值不是映射", nil).
					WithField("date", date)
			}
		}

		result := make(map[string]model.DateFacts, len(generic))
		for date, value := range generic {
			facts := make(model.DateFacts)
			if err := json.Unmarshal(value, &facts); err != nil {
				return nil, errors.FormatInvalid("结构化考勤文件格式不符", nil).
					WithField("date", date)
			}
			result[date] = facts
		}
		return result, nil
	}
	return nil, errors.ParseFailed(path, attempts)
}
