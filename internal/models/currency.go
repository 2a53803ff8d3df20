package models

// Currency is an ISO-4217-style currency code supported by the system.
type Currency string

const (
	CurrencyPEN Currency = "PEN"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether c is one of the supported currency codes.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyPEN, CurrencyUSD:
		return true
	}
	return false
}
