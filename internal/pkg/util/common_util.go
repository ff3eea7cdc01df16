package util

import (
	"strconv"
)

// StrToUint64 字符串转 uint64，解析失败返回 0
func StrToUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
