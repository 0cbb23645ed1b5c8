package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const queuePrefix = "Q-"

// FirstQueueNumber is handed out when no order exists yet
const FirstQueueNumber = "Q-001"

// NextQueueNumber returns the queue number following latest. An empty latest
// starts the sequence at Q-001.
func NextQueueNumber(latest string) (string, error) {
	if latest == "" {
		return FirstQueueNumber, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(latest, queuePrefix))
	if err != nil {
		return "", fmt.Errorf("failed to parse queue number %q: %w", latest, err)
	}

	return fmt.Sprintf("%s%03d", queuePrefix, n+1), nil
}

// FallbackQueueNumber derives a queue number from the last four digits of the
// current millisecond clock. Used when the latest order cannot be read.
func FallbackQueueNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 4 {
		ms = ms[len(ms)-4:]
	}
	return queuePrefix + ms
}
