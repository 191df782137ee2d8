// Package token exposes the ReputationToken ERC-20 contract. Amounts cross
// the API boundary as decimal strings at 18-decimal precision.
package token

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/units"
)

const tokenABI = `[
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
  {"type":"event","name":"Approval","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":true},{"name":"spender","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

// Service wraps the ReputationToken contract.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger
}

// New binds the ReputationToken contract at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("ReputationToken", address, tokenABI)
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "ReputationToken").Logger(),
	}, nil
}

// Mint issues tokens to an account. Owner-only on chain.
func (s *Service) Mint(ctx context.Context, to, amount string) (*domain.TxResult, error) {
	addr, value, err := parseTransferArgs(to, amount)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, "mint", addr, value)
}

// Burn destroys tokens held by an account. Owner-only on chain.
func (s *Service) Burn(ctx context.Context, from, amount string) (*domain.TxResult, error) {
	addr, value, err := parseTransferArgs(from, amount)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, "burn", addr, value)
}

// Transfer moves tokens from the signer to another account.
func (s *Service) Transfer(ctx context.Context, to, amount string) (*domain.TxResult, error) {
	addr, value, err := parseTransferArgs(to, amount)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, "transfer", addr, value)
}

// TransferFrom moves tokens between two accounts using a prior allowance.
func (s *Service) TransferFrom(ctx context.Context, from, to, amount string) (*domain.TxResult, error) {
	fromAddr, err := chain.ParseAddress(from)
	if err != nil {
		return nil, domain.Validationf("from: %v", err)
	}
	toAddr, value, err := parseTransferArgs(to, amount)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, "transferFrom", fromAddr, toAddr, value)
}

// Approve lets a spender move tokens on the signer's behalf.
func (s *Service) Approve(ctx context.Context, spender, amount string) (*domain.TxResult, error) {
	addr, value, err := parseTransferArgs(spender, amount)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, "approve", addr, value)
}

// BalanceOf reads an account's balance as a decimal string.
func (s *Service) BalanceOf(ctx context.Context, address string) (*domain.Balance, error) {
	addr, err := chain.ParseAddress(address)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "balanceOf", addr); err != nil {
		return nil, err
	}
	balance := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return &domain.Balance{
		Balance: units.FormatEther(balance),
		Address: addr.Hex(),
	}, nil
}

// Allowance reads how much a spender may move on an owner's behalf.
func (s *Service) Allowance(ctx context.Context, owner, spender string) (*domain.Allowance, error) {
	ownerAddr, err := chain.ParseAddress(owner)
	if err != nil {
		return nil, domain.Validationf("owner: %v", err)
	}
	spenderAddr, err := chain.ParseAddress(spender)
	if err != nil {
		return nil, domain.Validationf("spender: %v", err)
	}
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "allowance", ownerAddr, spenderAddr); err != nil {
		return nil, err
	}
	allowance := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return &domain.Allowance{
		Allowance: units.FormatEther(allowance),
		Owner:     ownerAddr.Hex(),
		Spender:   spenderAddr.Hex(),
	}, nil
}

// TotalSupply reads the circulating supply as a decimal string.
func (s *Service) TotalSupply(ctx context.Context) (string, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "totalSupply"); err != nil {
		return "", err
	}
	return units.FormatEther(*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)), nil
}

// Name reads the token name.
func (s *Service) Name(ctx context.Context) (string, error) {
	return s.readString(ctx, "name")
}

// Symbol reads the token symbol.
func (s *Service) Symbol(ctx context.Context) (string, error) {
	return s.readString(ctx, "symbol")
}

// Decimals reads the token's fixed-point precision.
func (s *Service) Decimals(ctx context.Context) (uint8, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "decimals"); err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// Info bundles the token's metadata reads.
func (s *Service) Info(ctx context.Context) (*domain.TokenInfo, error) {
	name, err := s.Name(ctx)
	if err != nil {
		return nil, err
	}
	symbol, err := s.Symbol(ctx)
	if err != nil {
		return nil, err
	}
	decimals, err := s.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	supply, err := s.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.TokenInfo{
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: supply,
	}, nil
}

func (s *Service) readString(ctx context.Context, method string) (string, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, method); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
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
	s.log.Info().Str("method", method).Str("tx_hash", tx.Hash().Hex()).Msg("token transaction confirmed")
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

func parseTransferArgs(address, amount string) (addr interface{}, value *big.Int, err error) {
	a, err := chain.ParseAddress(address)
	if err != nil {
		return nil, nil, domain.Validationf("%v", err)
	}
	v, err := units.ParsePositive(amount, units.EtherDecimals)
	if err != nil {
		return nil, nil, domain.Validationf("amount: %v", err)
	}
	return a, v, nil
}
