package payment

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseResult is what a parser extracts from a notification body.
type ParseResult struct {
	Amount    int64
	Reference string
}

// NotificationParser extracts amount and transaction reference from one
// provider's message format. Parse reports false when the text does not
// look like that provider's format at all; a partial extraction (amount
// but no reference) still returns true so the reconciler can audit the
// failure precisely.
type NotificationParser interface {
	Provider() string
	Parse(text string) (ParseResult, bool)
}

// codePattern matches claim codes anywhere in a message body. The
// class is wider than the generation alphabet on purpose: senders and
// OCR-style forwarders mangle codes, and an unknown code falls through
// to the ledger anyway.
var codePattern = regexp.MustCompile(`PZ-[A-Z0-9]{6}`)

// ExtractCode finds the first claim code in the text.
func ExtractCode(text string) (string, bool) {
	code := codePattern.FindString(strings.ToUpper(text))
	return code, code != ""
}

// DefaultParsers returns the provider parsers in priority order. The
// most specific formats come first; the generic parser is the catch-all
// and must stay last.
func DefaultParsers() []NotificationParser {
	return []NotificationParser{
		khanBankParser{},
		monpayParser{},
		genericParser{},
	}
}

// parseAmount strips thousand separators and converts to MNT.
func parseAmount(s string) int64 {
	s = strings.NewReplacer(",", "", "'", "", " ", "").Replace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// firstGroup runs the patterns in order and returns the first capture.
func firstGroup(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// khanBankParser handles Khan Bank income SMS, e.g.
// "Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290011 Гүйлгээний
// утга: PZ-AB12CD".
type khanBankParser struct{}

func (khanBankParser) Provider() string { return "khanbank" }

var (
	khanAmount = regexp.MustCompile(`(?i)([\d,']+)\s*(?:төгрөг|₮|MNT)\S*\s*орлого`)
	khanRefs   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)лавлах(?:\s*(?:дугаар|№))?\s*[:#]?\s*([A-Za-z0-9]{4,24})`),
		regexp.MustCompile(`(?i)гүйлгээний\s+дугаар\s*[:#]?\s*([A-Za-z0-9]{4,24})`),
	}
)

func (khanBankParser) Parse(text string) (ParseResult, bool) {
	m := khanAmount.FindStringSubmatch(text)
	if len(m) < 2 {
		return ParseResult{}, false
	}
	return ParseResult{
		Amount:    parseAmount(m[1]),
		Reference: firstGroup(text, khanRefs),
	}, true
}

// monpayParser handles Monpay wallet notifications, e.g.
// "Monpay: 19900₮ хүлээн авлаа. Гүйлгээ: MP7730021 Утга: PZ-AB12CD".
type monpayParser struct{}

func (monpayParser) Provider() string { return "monpay" }

var (
	monpayMarker = regexp.MustCompile(`(?i)monpay`)
	monpayAmount = regexp.MustCompile(`([\d,']+)\s*(?:₮|MNT|төгрөг)`)
	monpayRefs   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)гүйлгээ\s*[:#]?\s*([A-Za-z0-9]{4,24})`),
		regexp.MustCompile(`(?i)лавлах\s*[:#]?\s*([A-Za-z0-9]{4,24})`),
	}
)

func (monpayParser) Parse(text string) (ParseResult, bool) {
	if !monpayMarker.MatchString(text) {
		return ParseResult{}, false
	}
	m := monpayAmount.FindStringSubmatch(text)
	if len(m) < 2 {
		return ParseResult{}, false
	}
	return ParseResult{
		Amount:    parseAmount(m[1]),
		Reference: firstGroup(text, monpayRefs),
	}, true
}

// genericParser is the last-resort format: any currency-tagged number
// plus any labelled reference. It recognizes everything that carries an
// amount, so it terminates the parser chain.
type genericParser struct{}

func (genericParser) Provider() string { return "generic" }

var (
	genericAmount = regexp.MustCompile(`([\d,']+)\s*(?:₮|MNT|төгрөг)`)
	genericRefs   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)лавлах(?:\s*(?:дугаар|№))?\s*[:#]?\s*([A-Za-z0-9]{4,24})`),
		regexp.MustCompile(`(?i)гүйлгээний\s+дугаар\s*[:#]?\s*([A-Za-z0-9]{4,24})`),
		regexp.MustCompile(`(?i)(?:ref|txn|journal)\s*(?:no|id)?\s*[.:#]?\s*([A-Za-z0-9]{4,24})`),
	}
)

func (genericParser) Parse(text string) (ParseResult, bool) {
	m := genericAmount.FindStringSubmatch(text)
	if len(m) < 2 {
		return ParseResult{}, false
	}
	return ParseResult{
		Amount:    parseAmount(m[1]),
		Reference: firstGroup(text, genericRefs),
	}, true
}
