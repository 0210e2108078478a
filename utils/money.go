package utils

import "math"

// RoundCents 金额保留两位小数
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Percent 计算 amount 的 percent%，结果保留两位小数
func Percent(amount, percent float64) float64 {
	return RoundCents(amount * percent / 100)
}
