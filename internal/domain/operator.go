package domain

// Operator describes a registered UTM operator. ReputationBalance is a raw
// token balance kept as a decimal string to survive the JSON boundary.
type Operator struct {
	Address           string `json:"address"`
	Registered        bool   `json:"registered"`
	ReputationBalance string `json:"reputationBalance"`
}

// OperatorStats surfaces contract-level diagnostics for the operator registry.
type OperatorStats struct {
	TotalOperators           int      `json:"totalOperators"`
	RegisteredOperators      []string `json:"registeredOperators"`
	ContractOwner            string   `json:"contractOwner"`
	ReputationTokenAddress   string   `json:"reputationTokenAddress"`
	ReputationTokenSymbol    string   `json:"reputationTokenSymbol"`
	ReputationTokenDecimals  uint8    `json:"reputationTokenDecimals"`
}

// OperatorRoles reports which registry roles the configured signer holds.
type OperatorRoles struct {
	IsOwner bool   `json:"isOwner"`
	IsAdmin bool   `json:"isAdmin"`
	Address string `json:"address"`
}

// ContractProbe is the result of inspecting deployed contract code.
type ContractProbe struct {
	Exists               bool `json:"exists"`
	CodeSize             int  `json:"codeSize"`
	HasRequiredFunctions bool `json:"hasRequiredFunctions"`
}
