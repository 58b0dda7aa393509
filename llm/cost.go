package llm

const tokensPerMillion = 1_000_000

// Pricing holds per-million-token prices in USD.
type Pricing struct {
	InputPerMTok      float64 `yaml:"input"`
	OutputPerMTok     float64 `yaml:"output"` // output tokens include thinking tokens
	CacheWritePerMTok float64 `yaml:"cache_write"`
	CacheReadPerMTok  float64 `yaml:"cache_read"`
}

// DefaultPricing is the Claude 3.7 Sonnet price list (April 2025).
var DefaultPricing = Pricing{
	InputPerMTok:      3,
	OutputPerMTok:     15,
	CacheWritePerMTok: 3.75,
	CacheReadPerMTok:  0.3,
}

// Cost returns the estimated cost of usage in USD.
func (p Pricing) Cost(usage Usage) float64 {
	return float64(usage.InputTokens)*p.InputPerMTok/tokensPerMillion +
		float64(usage.OutputTokens)*p.OutputPerMTok/tokensPerMillion +
		float64(usage.CacheCreationInputTokens)*p.CacheWritePerMTok/tokensPerMillion +
		float64(usage.CacheReadInputTokens)*p.CacheReadPerMTok/tokensPerMillion
}

// CalculateCost returns the estimated cost of usage using DefaultPricing.
func CalculateCost(usage Usage) float64 {
	return DefaultPricing.Cost(usage)
}
