// Package accesscode derives short-lived investor access codes without storing them.
//
// A code is HMAC-SHA256(secret, "<email>:<bucket>") reduced to six decimal digits,
// where bucket is wall-clock time divided into fixed windows. The verifier accepts
// the codes of the current and the previous bucket, so a code stays valid for
// between one and two windows after it was issued.
package accesscode

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Digits  = 6
	modulus = 1_000_000
)

// Bucket returns floor(t in epoch millis / window in millis).
func Bucket(t time.Time, window time.Duration) int64 {
	ms := window.Milliseconds()
	ts := t.UnixMilli()
	b := ts / ms
	if ts%ms != 0 && ts < 0 {
		b--
	}
	return b
}

// Derive computes the code for email in bucket. It is pure and deterministic.
func Derive(email string, bucket int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(email + ":" + strconv.FormatInt(bucket, 10)))
	sum := mac.Sum(nil)
	v := binary.BigEndian.Uint32(sum[:4]) & 0x7fffffff
	return format(v % modulus)
}

func format(v uint32) string {
	return fmt.Sprintf("%0*d", Digits, v)
}

// Generator issues and checks codes for one secret and window width.
type Generator struct {
	secret string
	window time.Duration
	now    func() time.Time
}

func NewGenerator(secret string, window time.Duration) *Generator {
	return &Generator{secret: secret, window: window, now: time.Now}
}

// WithClock returns a copy of g reading time from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	c := *g
	c.now = now
	return &c
}

func (g *Generator) Window() time.Duration {
	return g.window
}

// Issue returns the code for email in the current bucket.
func (g *Generator) Issue(email string) string {
	return g.IssueAt(email, g.now())
}

func (g *Generator) IssueAt(email string, at time.Time) string {
	return Derive(email, Bucket(at, g.window), g.secret)
}

// Verify reports whether code matches email in the current or previous bucket.
// Wrong and expired codes are indistinguishable to the caller.
func (g *Generator) Verify(email, code string) bool {
	return g.VerifyAt(email, code, g.now())
}

func (g *Generator) VerifyAt(email, code string, at time.Time) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	current := Bucket(at, g.window)
	ok := false
	for _, b := range []int64{current, current - 1} {
		want := Derive(email, b, g.secret)
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			ok = true
		}
	}
	return ok
}
