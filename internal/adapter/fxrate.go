package adapter

// RateProvider supplies conversion rates between account base currencies
// when portfolio totals are assembled.
type RateProvider interface {
	// Rate returns the multiplier converting one unit of from into to.
	Rate(from, to string) float64
}

// FixedRateProvider treats every currency pair as 1:1. Cross-currency
// portfolios therefore sum raw balances; real conversion would plug in here
// as another RateProvider.
type FixedRateProvider struct{}

// NewFixedRateProvider creates the 1:1 stub provider
func NewFixedRateProvider() *FixedRateProvider {
	return &FixedRateProvider{}
}

// Rate always returns 1
func (p *FixedRateProvider) Rate(from, to string) float64 {
	return 1
}
