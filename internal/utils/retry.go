package utils

import (
	"log"
	"time"
)

// Retry runs fn up to attempts times, sleeping delay between failures, and
// returns the last error unmodified once attempts are exhausted. Transient
// store failures are retried by callers through this combinator, never
// inside store operations themselves.
func Retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < attempts {
			log.Printf("Attempt %d/%d failed: %v, retrying in %v", attempt, attempts, err, delay)
			time.Sleep(delay)
		}
	}
	return err
}
