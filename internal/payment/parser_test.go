package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	code, ok := ExtractCode("Гүйлгээний утга: PZ-AB12CD баярлалаа")
	require.True(t, ok)
	assert.Equal(t, "PZ-AB12CD", code)

	code, ok = ExtractCode("утга: pz-ab12cd")
	require.True(t, ok, "codes are matched case-insensitively")
	assert.Equal(t, "PZ-AB12CD", code)

	_, ok = ExtractCode("Таны данс 19900 төгрөгөөр цэнэглэгдлээ")
	assert.False(t, ok)

	_, ok = ExtractCode("PZ-AB1")
	assert.False(t, ok, "short fragments are not codes")
}

func TestKhanBankParser(t *testing.T) {
	p := khanBankParser{}
	res, ok := p.Parse("Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290011 Гүйлгээний утга: PZ-AB12CD")
	require.True(t, ok)
	assert.Equal(t, int64(19900), res.Amount)
	assert.Equal(t, "2508290011", res.Reference)

	_, ok = p.Parse("Monpay: 19900₮ хүлээн авлаа")
	assert.False(t, ok, "no income marker, not a Khan message")
}

func TestMonpayParser(t *testing.T) {
	p := monpayParser{}
	res, ok := p.Parse("Monpay: 1,990₮ хүлээн авлаа. Гүйлгээ: MP7730021 Утга: PZ-QRSTUV")
	require.True(t, ok)
	assert.Equal(t, int64(1990), res.Amount)
	assert.Equal(t, "MP7730021", res.Reference)

	_, ok = p.Parse("Tan-d 19,900 төгрөгийн орлого орлоо")
	assert.False(t, ok)
}

func TestGenericParser(t *testing.T) {
	p := genericParser{}
	res, ok := p.Parse("Орлого: 39900 MNT ref: ABC99120 утга PZ-HJKMNP")
	require.True(t, ok)
	assert.Equal(t, int64(39900), res.Amount)
	assert.Equal(t, "ABC99120", res.Reference)

	res, ok = p.Parse("39900₮")
	require.True(t, ok, "amount alone is still recognized")
	assert.Empty(t, res.Reference)

	_, ok = p.Parse("hello world")
	assert.False(t, ok)
}

func TestParserPriorityOrder(t *testing.T) {
	parsers := DefaultParsers()
	require.Len(t, parsers, 3)
	assert.Equal(t, "khanbank", parsers[0].Provider())
	assert.Equal(t, "monpay", parsers[1].Provider())
	assert.Equal(t, "generic", parsers[2].Provider())

	// a Khan-formatted message must be taken by the Khan parser even
	// though the generic one would also accept it
	text := "Tan-d 1,990 төгрөгийн орлого орлоо. Лавлах: 2508290099"
	for _, p := range parsers {
		if res, ok := p.Parse(text); ok {
			assert.Equal(t, "khanbank", p.Provider())
			assert.Equal(t, int64(1990), res.Amount)
			break
		}
	}
}

func TestParseAmountStripsSeparators(t *testing.T) {
	assert.Equal(t, int64(19900), parseAmount("19,900"))
	assert.Equal(t, int64(39900), parseAmount("39'900"))
	assert.Equal(t, int64(0), parseAmount("n/a"))
}
