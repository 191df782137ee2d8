package domain

// TokenInfo bundles the ERC-20 metadata of the reputation token.
type TokenInfo struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
}

// Balance is a token balance formatted at the token's decimal precision.
type Balance struct {
	Balance string `json:"balance"`
	Address string `json:"address"`
}

// Allowance is a spender allowance formatted at the token's decimal precision.
type Allowance struct {
	Allowance string `json:"allowance"`
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
}
