package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const orderDayLayout = "20060102"

// Sequencer hands out a per-day counter. The redis client satisfies it.
type Sequencer interface {
	NextOrderSequence(ctx context.Context, day string) (int64, error)
}

// FormatOrderNumber renders YYYYMMDD-NNN. Sequences past 999 keep all digits.
func FormatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%03d", day.Format(orderDayLayout), seq)
}

func randomSequence() int64 {
	return int64(rand.IntN(999)) + 1
}

// nextOrderNumber asks the sequencer for today's counter and falls back to a
// random suffix when it is unavailable. The fallback is reported so callers can log it.
func nextOrderNumber(ctx context.Context, seq Sequencer, now time.Time) (string, error) {
	day := now.Format(orderDayLayout)
	if seq == nil {
		return FormatOrderNumber(now, randomSequence()), fmt.Errorf("order sequencer not configured")
	}
	n, err := seq.NextOrderSequence(ctx, day)
	if err != nil {
		return FormatOrderNumber(now, randomSequence()), err
	}
	return FormatOrderNumber(now, n), nil
}
