package chain

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blockchain-unitn/skyledger-backend/internal/metrics"
)

// Contract is a typed handle bound to one deployed contract. The method set
// is fixed by the JSON ABI supplied at construction; no dynamic discovery is
// performed.
type Contract struct {
	name    string
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
}

// Bind parses the ABI and binds it to the contract at the given address.
func (c *Client) Bind(name, address, abiJSON string) (*Contract, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%s contract: %w", name, err)
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("%s contract: parse ABI: %w", name, err)
	}

	return &Contract{
		name:    name,
		address: addr,
		abi:     parsed,
		bound:   bind.NewBoundContract(addr, parsed, c.eth, c.eth, c.eth),
	}, nil
}

// Name returns the label used for logging and metrics.
func (c *Contract) Name() string { return c.name }

// Address returns the bound contract address.
func (c *Contract) Address() common.Address { return c.address }

// Call invokes a view method and leaves the raw ABI-decoded values in out.
func (c *Contract) Call(opts *bind.CallOpts, out *[]interface{}, method string, args ...interface{}) error {
	start := time.Now()
	err := c.bound.Call(opts, out, method, args...)
	metrics.RecordContractCall(c.name, method, err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("call %s.%s: %w", c.name, method, err)
	}
	return nil
}

// Transact submits a state-changing method invocation.
func (c *Contract) Transact(opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error) {
	start := time.Now()
	tx, err := c.bound.Transact(opts, method, args...)
	metrics.RecordContractCall(c.name, method, err == nil, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("send %s.%s: %w", c.name, method, err)
	}
	return tx, nil
}

// EventID returns the topic hash of a declared event.
func (c *Contract) EventID(name string) (common.Hash, error) {
	ev, ok := c.abi.Events[name]
	if !ok {
		return common.Hash{}, fmt.Errorf("%s contract: unknown event %s", c.name, name)
	}
	return ev.ID, nil
}

// IndexedBigInt scans receipt logs for the first entry whose signature topic
// matches the event and decodes the indexed argument at topicIndex. The
// first match wins; with multiple same-type events in one transaction the
// result is ambiguous, which callers accept as a known limitation.
func IndexedBigInt(receipt *types.Receipt, event common.Hash, topicIndex int) (*big.Int, bool) {
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > topicIndex && lg.Topics[0] == event {
			return new(big.Int).SetBytes(lg.Topics[topicIndex].Bytes()), true
		}
	}
	return nil, false
}
