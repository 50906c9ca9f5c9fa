package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// id builds a prefixed identifier from the trailing digits of the current
// unix-millisecond timestamp plus a zero-padded random suffix.
func id(prefix string, tsDigits, randDigits int) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) > tsDigits {
		ts = ts[len(ts)-tsDigits:]
	}
	max := 1
	for i := 0; i < randDigits; i++ {
		max *= 10
	}
	return fmt.Sprintf("%s%s%0*d", prefix, ts, randDigits, rand.Intn(max))
}

func OrderID() string        { return id("ORD", 6, 3) }
func CustomerID() string     { return id("CUST", 6, 3) }
func ProductID() string      { return id("P", 6, 3) }
func TrackingNumber() string { return id("TRK", 8, 4) }
