package gateway

import (
	"fmt"
	"strings"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/shopspring/decimal"
)

// Currency is a lowercase ISO 4217 code accepted by Stripe
type Currency string

// Currencies Stripe settles card charges in
var supportedCurrencies = map[Currency]struct{}{
	"aed": {}, "afn": {}, "all": {}, "amd": {}, "ang": {}, "aoa": {}, "ars": {}, "aud": {},
	"awg": {}, "azn": {}, "bam": {}, "bbd": {}, "bdt": {}, "bgn": {}, "bif": {}, "bmd": {},
	"bnd": {}, "bob": {}, "brl": {}, "bsd": {}, "bwp": {}, "byn": {}, "bzd": {}, "cad": {},
	"cdf": {}, "chf": {}, "clp": {}, "cny": {}, "cop": {}, "crc": {}, "cve": {}, "czk": {},
	"djf": {}, "dkk": {}, "dop": {}, "dzd": {}, "egp": {}, "etb": {}, "eur": {}, "fjd": {},
	"fkp": {}, "gbp": {}, "gel": {}, "gip": {}, "gmd": {}, "gnf": {}, "gtq": {}, "gyd": {},
	"hkd": {}, "hnl": {}, "htg": {}, "huf": {}, "idr": {}, "ils": {}, "inr": {}, "isk": {},
	"jmd": {}, "jpy": {}, "kes": {}, "kgs": {}, "khr": {}, "kmf": {}, "krw": {}, "kyd": {},
	"kzt": {}, "lak": {}, "lbp": {}, "lkr": {}, "lrd": {}, "lsl": {}, "mad": {}, "mdl": {},
	"mga": {}, "mkd": {}, "mmk": {}, "mnt": {}, "mop": {}, "mur": {}, "mvr": {}, "mwk": {},
	"mxn": {}, "myr": {}, "mzn": {}, "nad": {}, "ngn": {}, "nio": {}, "nok": {}, "npr": {},
	"nzd": {}, "pab": {}, "pen": {}, "pgk": {}, "php": {}, "pkr": {}, "pln": {}, "pyg": {},
	"qar": {}, "ron": {}, "rsd": {}, "rub": {}, "rwf": {}, "sar": {}, "sbd": {}, "scr": {},
	"sek": {}, "sgd": {}, "shp": {}, "sle": {}, "sos": {}, "srd": {}, "szl": {}, "thb": {},
	"tjs": {}, "top": {}, "try": {}, "ttd": {}, "twd": {}, "tzs": {}, "uah": {}, "ugx": {},
	"usd": {}, "uyu": {}, "uzs": {}, "vnd": {}, "vuv": {}, "wst": {}, "xaf": {}, "xcd": {},
	"xof": {}, "xpf": {}, "yer": {}, "zar": {}, "zmw": {},
}

// Amounts in these currencies are already in the smallest unit
var zeroDecimalCurrencies = map[Currency]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// ParseCurrency validates a store currency code, case-insensitively
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(code)))
	if c == "" {
		return "", domain.ErrPrimaryCurrencyMissing
	}
	if _, ok := supportedCurrencies[c]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrCurrencyNotSupported, strings.ToUpper(code))
	}
	return c, nil
}

// Exponent is the number of minor-unit digits Stripe expects
func (c Currency) Exponent() int32 {
	if _, ok := zeroDecimalCurrencies[c]; ok {
		return 0
	}
	return 2
}

func (c Currency) String() string {
	return string(c)
}

// ToMinorUnits converts an amount to the smallest currency unit,
// truncating any sub-unit remainder toward zero.
func ToMinorUnits(amount decimal.Decimal, currency Currency) int64 {
	return amount.Shift(currency.Exponent()).Truncate(0).IntPart()
}
