package service

import (
	"math/rand/v2"
	"time"
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber formats ORD-YYMMDD-XXXXXX from the UTC date of t and six
// random base36 characters.
func NewOrderNumber(t time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = numberAlphabet[rand.IntN(len(numberAlphabet))]
	}
	return "ORD-" + t.UTC().Format("060102") + "-" + string(suffix)
}
