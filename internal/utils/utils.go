// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// placeholderTime показывается вместо времени, когда оно неизвестно
const placeholderTime = "-:--"

// FormatTime форматирует количество секунд в вид M:SS.
// Дробные секунды округляются вверх, часы не выделяются (61 минута -> "61:00").
// Для нуля, отрицательных значений и NaN возвращается "-:--".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return placeholderTime
	}

	totalSec := int64(math.Ceil(seconds))
	minutes := totalSec / 60
	secRemainder := totalSec % 60
	return fmt.Sprintf("%d:%02d", minutes, secRemainder)
}

// FormatDuration форматирует time.Duration по тем же правилам, что и FormatTime
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}

// FormatVolume форматирует громкость 0.0–1.0 в проценты
func FormatVolume(volume float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(volume*100)))
}

// TruncateString обрезает строку до указанной длины в символах, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
