package utils

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"
)

const (
	// SheetDateTimeLayout: формат дат в планилье и в поле timestamp панели.
	SheetDateTimeLayout = "02/01/2006 15:04:05"
	// AttendanceLayout: формат inicio/conclusao в ответе панели (с запятой).
	AttendanceLayout = "02/01/2006, 15:04:05"
	// FilterDateLayout: формат параметра date в GET /requests.
	FilterDateLayout = "2006-01-02"
)

// Все моменты хранятся и форматируются в UTC.
func FormatDateTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layout)
}

func FormatNullTime(t null.Time, layout string) string {
	if !t.Valid {
		return ""
	}
	return FormatDateTime(t.Time, layout)
}

// ParseSheetDateTime допускает пробелы вокруг даты.
func ParseSheetDateTime(value string) (time.Time, error) {
	return time.ParseInLocation(SheetDateTimeLayout, strings.TrimSpace(value), time.UTC)
}

// DayBounds возвращает полуинтервал [начало дня, начало следующего дня) в UTC.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
