package view

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders minor units (paise) as rupees with digit grouping.
func FormatAmount(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}

	return amountPrinter.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatRange renders an inclusive day range; single days print once.
func FormatRange(start, end time.Time) string {
	if start.Equal(end) {
		return FormatDate(start)
	}

	return fmt.Sprintf("%s → %s", FormatDate(start), FormatDate(end))
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
