package infra

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// NF-e access key layout (44 digits):
//
//	cUF(2) AAMM(4) CNPJ(14) mod(2) serie(3) nNF(9) tpEmis(1) cNF(8) cDV(1)
//
// The key built here follows the layout and check digit but is not registered
// with any SEFAZ; it identifies the document inside this system only.
const (
	nfeStateSP   = "35"
	nfeModel     = "55"
	nfeSeries    = "001"
	nfeEmitNorm  = "1"
	AccessKeyLen = 44
)

// NewAccessKey builds an access key for invoice number n issued at t.
func NewAccessKey(t time.Time, cnpj string, n uint) string {
	return buildAccessKey(t, cnpj, n, rand.IntN(100_000_000))
}

func buildAccessKey(t time.Time, cnpj string, n uint, code int) string {
	var b strings.Builder
	b.WriteString(nfeStateSP)
	b.WriteString(t.Format("0601"))
	b.WriteString(digits14(cnpj))
	b.WriteString(nfeModel)
	b.WriteString(nfeSeries)
	fmt.Fprintf(&b, "%09d", n%1_000_000_000)
	b.WriteString(nfeEmitNorm)
	fmt.Fprintf(&b, "%08d", code%100_000_000)
	key := b.String()
	return key + string(rune('0'+mod11(key)))
}

// digits14 strips punctuation and left-pads/truncates to 14 digits.
func digits14(cnpj string) string {
	var only []byte
	for i := 0; i < len(cnpj); i++ {
		if cnpj[i] >= '0' && cnpj[i] <= '9' {
			only = append(only, cnpj[i])
		}
	}
	s := string(only)
	if len(s) > 14 {
		return s[len(s)-14:]
	}
	return strings.Repeat("0", 14-len(s)) + s
}

// mod11 is the NF-e check digit: weights 2..9 from the right, 0 when the
// remainder is 0 or 1.
func mod11(key string) int {
	sum, w := 0, 2
	for i := len(key) - 1; i >= 0; i-- {
		sum += int(key[i]-'0') * w
		w++
		if w > 9 {
			w = 2
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// ValidAccessKey checks length, digits and check digit.
func ValidAccessKey(key string) bool {
	if len(key) != AccessKeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return int(key[43]-'0') == mod11(key[:43])
}
