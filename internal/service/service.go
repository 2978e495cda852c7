// Package service 持有全部业务规则的唯一一份实现；
// 路由层只做绑定与编解码，仓库层只做存取
package service

import (
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，按驱动报错文本兜底判断唯一冲突
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

// round2 金额四舍五入到分
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
