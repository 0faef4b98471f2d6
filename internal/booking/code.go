package booking

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	codePrefix      = "TK"
	codeSuffixLen   = 5
	codeCharset     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeMaxAttempts = 3
)

// NewBookingCode produces a human-presentable booking code: the "TK"
// prefix, a millisecond timestamp and a short random suffix.  The scheme
// is readable but not collision-proof, so the coordinator retries on a
// duplicate-code insert and falls back to FallbackCode after
// codeMaxAttempts.
func NewBookingCode() (string, error) {
	buf := make([]byte, codeSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codeCharset[int(buf[i])%len(codeCharset)]
	}
	return codePrefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + string(buf), nil
}

// FallbackCode derives a booking code from a random UUID.  It trades the
// readable timestamp for collision resistance and is used only after
// repeated duplicate-key failures.
func FallbackCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return codePrefix + raw[:16]
}
