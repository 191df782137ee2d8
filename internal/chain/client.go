// Package chain provides the EVM JSON-RPC client and contract bindings for
// the SkyLedger backend.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Config holds client configuration.
type Config struct {
	RPCURL     string
	ChainID    uint64 // expected network identifier; mismatch fails Dial
	PrivateKey string // hex-encoded signing key, optional 0x prefix
	Timeout    time.Duration
}

// Client wraps an EVM JSON-RPC connection with a single signing identity.
// It is read-only after construction and safe for concurrent use.
type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
	from    common.Address
	base    *bind.TransactOpts
	log     zerolog.Logger
}

// Dial connects to the node, verifies the chain identifier against the
// configured one and prepares the signing identity. Configuration problems
// surface here, before any request is served.
func Dial(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL required")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("signing key required")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	if cfg.ChainID != 0 && chainID.Uint64() != cfg.ChainID {
		return nil, fmt.Errorf("chain id mismatch: node reports %s, expected %d", chainID, cfg.ChainID)
	}

	base, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	log.Info().
		Str("rpc_url", cfg.RPCURL).
		Str("chain_id", chainID.String()).
		Str("signer", from.Hex()).
		Msg("chain client connected")

	return &Client{
		eth:     eth,
		chainID: chainID,
		key:     key,
		from:    from,
		base:    base,
		log:     log,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// From returns the signing identity address.
func (c *Client) From() common.Address { return c.from }

// ChainID returns the connected network identifier.
func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// =============================================================================
// Node queries
// =============================================================================

// BlockNumber returns the current block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	return n, nil
}

// BalanceAt returns the current native balance of an account.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", account.Hex(), err)
	}
	return bal, nil
}

// CodeAt returns the deployed bytecode of an account.
func (c *Client) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("get code of %s: %w", account.Hex(), err)
	}
	return code, nil
}

// =============================================================================
// Call and transaction options
// =============================================================================

// CallOpts builds read-only call options bound to the request context.
func (c *Client) CallOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: c.from}
}

// TransactOpts builds transaction options with a freshly fetched pending
// nonce. Concurrent submissions from the same signer can still race; the
// chain's nonce sequencing is the only ordering guarantee.
func (c *Client) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("get pending nonce: %w", err)
	}

	opts := *c.base
	opts.Context = ctx
	opts.Nonce = new(big.Int).SetUint64(nonce)
	return &opts, nil
}

// WaitMined blocks until the transaction has one confirmation and reports a
// revert as an error.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}
	return receipt, nil
}

// =============================================================================
// Addresses
// =============================================================================

// ParseAddress validates account identifier syntax and returns the
// checksummed form. Invalid input never reaches the network.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address format: %s", s)
	}
	return common.HexToAddress(s), nil
}
