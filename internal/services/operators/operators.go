// Package operators exposes the Operator registry contract together with the
// reputation-token reads its flows depend on. The token address is discovered
// from the registry and the binding cached for the life of the service.
package operators

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/units"
)

const operatorsABI = `[
  {"type":"function","name":"registerOperator","stateMutability":"payable","inputs":[{"name":"operator","type":"address"}],"outputs":[]},
  {"type":"function","name":"spendTokens","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"penalizeOperator","stateMutability":"payable","inputs":[{"name":"operator","type":"address"},{"name":"penalty","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"addAdmin","stateMutability":"nonpayable","inputs":[{"name":"newAdmin","type":"address"}],"outputs":[]},
  {"type":"function","name":"removeAdmin","stateMutability":"nonpayable","inputs":[{"name":"adminToRemove","type":"address"}],"outputs":[]},
  {"type":"function","name":"getReputation","stateMutability":"view","inputs":[{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getOperatorInfo","stateMutability":"view","inputs":[{"name":"operatorAddress","type":"address"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"registered","type":"bool"}]}]},
  {"type":"function","name":"reputationToken","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"ownerAddr","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"ADMIN_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"OWNER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"getAllOperators","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"event","name":"OperatorRegistered","anonymous":false,"inputs":[{"name":"operator","type":"address","indexed":true}]},
  {"type":"event","name":"TokensSpent","anonymous":false,"inputs":[{"name":"operator","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"OperatorPenalized","anonymous":false,"inputs":[{"name":"operator","type":"address","indexed":true},{"name":"penalty","type":"uint256","indexed":false}]}
]`

// Minimal ERC-20 surface used against the discovered reputation token.
const erc20ABI = `[
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

type operatorInfoTuple struct {
	Registered bool
}

// Service wraps the Operator registry contract.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger

	mu    sync.Mutex
	token *chain.Contract // lazily bound reputation token
}

// New binds the Operator registry at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("Operator", address, operatorsABI)
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "Operator").Logger(),
	}, nil
}

// tokenContract resolves and caches the reputation token binding. The
// registry's token address is immutable, so one read suffices.
func (s *Service) tokenContract(ctx context.Context) (*chain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != nil {
		return s.token, nil
	}

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "reputationToken"); err != nil {
		return nil, err
	}
	addr := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)

	token, err := s.client.Bind("ReputationToken", addr.Hex(), erc20ABI)
	if err != nil {
		return nil, err
	}
	s.token = token
	return token, nil
}

func (s *Service) tokenDecimals(ctx context.Context, token *chain.Contract) (uint8, error) {
	var out []interface{}
	if err := token.Call(s.client.CallOpts(ctx), &out, "decimals"); err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// All lists every registered operator address.
func (s *Service) All(ctx context.Context) ([]string, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getAllOperators"); err != nil {
		return nil, err
	}
	addrs := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
	result := make([]string, len(addrs))
	for i, a := range addrs {
		result[i] = a.Hex()
	}
	return result, nil
}

// Get reads one operator's registration flag and raw reputation balance.
func (s *Service) Get(ctx context.Context, address string) (*domain.Operator, error) {
	addr, err := chain.ParseAddress(address)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getOperatorInfo", addr); err != nil {
		return nil, err
	}
	info := *abi.ConvertType(out[0], new(operatorInfoTuple)).(*operatorInfoTuple)

	balance, err := s.Reputation(ctx, addr.Hex())
	if err != nil {
		return nil, err
	}

	return &domain.Operator{
		Address:           addr.Hex(),
		Registered:        info.Registered,
		ReputationBalance: balance,
	}, nil
}

// Reputation reads the raw reputation balance of one operator.
func (s *Service) Reputation(ctx context.Context, address string) (string, error) {
	addr, err := chain.ParseAddress(address)
	if err != nil {
		return "", domain.Validationf("%v", err)
	}
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getReputation", addr); err != nil {
		return "", err
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).String(), nil
}

// Register enrolls an operator in the registry.
func (s *Service) Register(ctx context.Context, operator string) (*domain.TxResult, error) {
	addr, err := chain.ParseAddress(operator)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "registerOperator", addr)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	s.log.Info().Str("operator", addr.Hex()).Str("tx_hash", tx.Hash().Hex()).Msg("operator registered")
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// SpendTokens sends native value to the registry's payable spend entry.
// Amount is an ether-denominated decimal string.
func (s *Service) SpendTokens(ctx context.Context, amount string) (*domain.TxResult, error) {
	value, err := units.ParseEther(amount)
	if err != nil {
		return nil, domain.Validationf("amount: %v", err)
	}
	if value.Sign() <= 0 {
		return nil, domain.Validationf("amount must be greater than 0")
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.Value = value
	tx, err := s.contract.Transact(opts, "spendTokens")
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// Penalize deducts reputation from an operator. The penalty is a decimal
// string parsed at the reputation token's declared precision.
func (s *Service) Penalize(ctx context.Context, operator, penalty string) (*domain.TxResult, error) {
	addr, err := chain.ParseAddress(operator)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}

	token, err := s.tokenContract(ctx)
	if err != nil {
		return nil, err
	}
	decimals, err := s.tokenDecimals(ctx, token)
	if err != nil {
		return nil, err
	}
	amount, err := units.ParsePositive(penalty, decimals)
	if err != nil {
		return nil, domain.Validationf("penalty: %v", err)
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "penalizeOperator", addr, amount)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	s.log.Info().Str("operator", addr.Hex()).Str("penalty", penalty).Str("tx_hash", tx.Hash().Hex()).Msg("operator penalized")
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// AddAdmin grants the admin role to an account.
func (s *Service) AddAdmin(ctx context.Context, admin string) (*domain.TxResult, error) {
	addr, err := chain.ParseAddress(admin)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}
	return s.transact(ctx, "addAdmin", addr)
}

// RemoveAdmin revokes the admin role from an account.
func (s *Service) RemoveAdmin(ctx context.Context, admin string) (*domain.TxResult, error) {
	addr, err := chain.ParseAddress(admin)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}
	return s.transact(ctx, "removeAdmin", addr)
}

// ApproveTokens approves the registry to spend the signer's reputation
// tokens. An empty amount defaults to 1000 tokens.
func (s *Service) ApproveTokens(ctx context.Context, amount string) (*domain.TxResult, error) {
	token, err := s.tokenContract(ctx)
	if err != nil {
		return nil, err
	}
	decimals, err := s.tokenDecimals(ctx, token)
	if err != nil {
		return nil, err
	}

	if amount == "" {
		amount = "1000"
	}
	approval, err := units.ParsePositive(amount, decimals)
	if err != nil {
		return nil, domain.Validationf("amount: %v", err)
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := token.Transact(opts, "approve", s.contract.Address(), approval)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// Allowance reads how much reputation the registry may spend on the signer's
// behalf, formatted at the token's precision.
func (s *Service) Allowance(ctx context.Context) (string, error) {
	token, err := s.tokenContract(ctx)
	if err != nil {
		return "", err
	}
	decimals, err := s.tokenDecimals(ctx, token)
	if err != nil {
		return "", err
	}

	var out []interface{}
	if err := token.Call(s.client.CallOpts(ctx), &out, "allowance", s.client.From(), s.contract.Address()); err != nil {
		return "", err
	}
	allowance := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return units.Format(allowance, decimals), nil
}

// Stats surfaces the registry's configuration and population.
func (s *Service) Stats(ctx context.Context) (*domain.OperatorStats, error) {
	token, err := s.tokenContract(ctx)
	if err != nil {
		return nil, err
	}

	var ownerOut []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &ownerOut, "ownerAddr"); err != nil {
		return nil, err
	}
	owner := *abi.ConvertType(ownerOut[0], new(common.Address)).(*common.Address)

	var symOut []interface{}
	if err := token.Call(s.client.CallOpts(ctx), &symOut, "symbol"); err != nil {
		return nil, err
	}
	symbol := *abi.ConvertType(symOut[0], new(string)).(*string)

	decimals, err := s.tokenDecimals(ctx, token)
	if err != nil {
		return nil, err
	}

	operators, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.OperatorStats{
		TotalOperators:          len(operators),
		RegisteredOperators:     operators,
		ContractOwner:           owner.Hex(),
		ReputationTokenAddress:  token.Address().Hex(),
		ReputationTokenSymbol:   symbol,
		ReputationTokenDecimals: decimals,
	}, nil
}

// ContractBalance reads the registry's native balance in ether units.
func (s *Service) ContractBalance(ctx context.Context) (string, error) {
	balance, err := s.client.BalanceAt(ctx, s.contract.Address())
	if err != nil {
		return "", err
	}
	return units.FormatEther(balance), nil
}

// Roles reports which registry roles the configured signer holds.
func (s *Service) Roles(ctx context.Context) (*domain.OperatorRoles, error) {
	ownerRole, err := s.role(ctx, "OWNER_ROLE")
	if err != nil {
		return nil, err
	}
	adminRole, err := s.role(ctx, "ADMIN_ROLE")
	if err != nil {
		return nil, err
	}

	isOwner, err := s.hasRole(ctx, ownerRole)
	if err != nil {
		return nil, err
	}
	isAdmin, err := s.hasRole(ctx, adminRole)
	if err != nil {
		return nil, err
	}

	return &domain.OperatorRoles{
		IsOwner: isOwner,
		IsAdmin: isAdmin,
		Address: s.client.From().Hex(),
	}, nil
}

// Probe inspects the deployed bytecode and checks the expected entry points
// respond.
func (s *Service) Probe(ctx context.Context) (*domain.ContractProbe, error) {
	code, err := s.client.CodeAt(ctx, s.contract.Address())
	if err != nil {
		return nil, err
	}

	hasFunctions := false
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "ownerAddr"); err == nil {
		hasFunctions = true
	}

	return &domain.ContractProbe{
		Exists:               len(code) > 0,
		CodeSize:             len(code),
		HasRequiredFunctions: hasFunctions,
	}, nil
}

func (s *Service) role(ctx context.Context, name string) ([32]byte, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, name); err != nil {
		return [32]byte{}, err
	}
	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}

func (s *Service) hasRole(ctx context.Context, role [32]byte) (bool, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "hasRole", role, s.client.From()); err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (s *Service) transact(ctx context.Context, method string, args ...interface{}) (*domain.TxResult, error) {
	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}
