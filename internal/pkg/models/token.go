package models

// Token describes a supported stablecoin mint
type Token struct {
	Symbol   string `json:"symbol"`
	Mint     string `json:"mint"`
	Decimals uint8  `json:"decimals"`
}

// SupportedTokens is the registry of stablecoins the treasury can hold.
// Keyed by symbol; mints are mainnet addresses.
var SupportedTokens = map[string]Token{
	"USDC": {Symbol: "USDC", Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6},
	"USDT": {Symbol: "USDT", Mint: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Decimals: 6},
	"EURC": {Symbol: "EURC", Mint: "HzwqbKZw8HxMN6bF2yFZNrht3c2iXXzpKcFu7uBEDKtr", Decimals: 6},
}

// TokenBySymbol returns the token for a symbol, false if unsupported
func TokenBySymbol(symbol string) (Token, bool) {
	t, ok := SupportedTokens[symbol]
	return t, ok
}

// TokenBalance is an on-chain balance for one vault token account
type TokenBalance struct {
	Symbol  string  `json:"symbol"`
	Mint    string  `json:"mint"`
	ATA     string  `json:"ata"`
	Balance float64 `json:"balance"`
}
