package utils

import (
	"strconv"
)

// Transfer 把 jwt claims 中的身份字段转换为 int64, 无法识别时返回 -1
func Transfer(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		// json 解出的数字都是 float64
		return int64(v)
	case string:
		if intValue, err := strconv.ParseInt(v, 10, 64); err == nil {
			return intValue
		}
	}
	return -1
}

func ConvertStringToInt64(v string) (int64, error) {
	res, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return -1, err
	}
	return res, nil
}
