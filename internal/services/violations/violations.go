// Package violations exposes the ViolationsAlerting contract: an append-only
// record of airspace violations keyed by free-form drone identifiers.
package violations

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

const violationsABI = `[
  {"type":"function","name":"reportViolation","stateMutability":"nonpayable","inputs":[{"name":"droneID","type":"string"},{"name":"position","type":"string"}],"outputs":[]},
  {"type":"function","name":"getViolationsCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getViolation","stateMutability":"view","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"string"},{"name":"","type":"string"},{"name":"","type":"uint256"}]},
  {"type":"function","name":"getViolationsByDrone","stateMutability":"view","inputs":[{"name":"targetDroneID","type":"string"}],"outputs":[{"name":"positions","type":"string[]"},{"name":"timestamps","type":"uint256[]"}]},
  {"type":"function","name":"getAllViolations","stateMutability":"view","inputs":[],"outputs":[{"name":"droneIDs","type":"string[]"},{"name":"positions","type":"string[]"},{"name":"timestamps","type":"uint256[]"}]},
  {"type":"event","name":"ViolationReported","anonymous":false,"inputs":[{"name":"droneID","type":"string","indexed":true},{"name":"position","type":"string","indexed":false},{"name":"timestamp","type":"uint256","indexed":false}]}
]`

// Service wraps the ViolationsAlerting contract.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger
}

// New binds the ViolationsAlerting contract at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("ViolationsAlerting", address, violationsABI)
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "ViolationsAlerting").Logger(),
	}, nil
}

// Report appends one violation record.
func (s *Service) Report(ctx context.Context, req domain.ReportViolationRequest) (*domain.TxResult, error) {
	if strings.TrimSpace(req.DroneID) == "" {
		return nil, domain.Validationf("a valid drone ID is required")
	}
	if strings.TrimSpace(req.Position) == "" {
		return nil, domain.Validationf("a valid position is required")
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "reportViolation", req.DroneID, req.Position)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	s.log.Info().Str("drone_id", req.DroneID).Str("tx_hash", tx.Hash().Hex()).Msg("violation reported")
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// Count returns the total number of recorded violations.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getViolationsCount"); err != nil {
		return 0, err
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

// Get reads the violation at one index.
func (s *Service) Get(ctx context.Context, index uint64) (*domain.Violation, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getViolation", new(big.Int).SetUint64(index)); err != nil {
		return nil, err
	}
	return &domain.Violation{
		DroneID:   *abi.ConvertType(out[0], new(string)).(*string),
		Position:  *abi.ConvertType(out[1], new(string)).(*string),
		Timestamp: (*abi.ConvertType(out[2], new(*big.Int)).(**big.Int)).Uint64(),
	}, nil
}

// ByDrone lists the recorded positions and timestamps of one drone.
func (s *Service) ByDrone(ctx context.Context, droneID string) (*domain.DroneViolations, error) {
	if strings.TrimSpace(droneID) == "" {
		return nil, domain.Validationf("a valid drone ID is required")
	}

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getViolationsByDrone", droneID); err != nil {
		return nil, err
	}
	return &domain.DroneViolations{
		Positions:  *abi.ConvertType(out[0], new([]string)).(*[]string),
		Timestamps: toUint64s(*abi.ConvertType(out[1], new([]*big.Int)).(*[]*big.Int)),
	}, nil
}

// All dumps every recorded violation as parallel arrays.
func (s *Service) All(ctx context.Context) (*domain.AllViolations, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getAllViolations"); err != nil {
		return nil, err
	}
	return &domain.AllViolations{
		DroneIDs:   *abi.ConvertType(out[0], new([]string)).(*[]string),
		Positions:  *abi.ConvertType(out[1], new([]string)).(*[]string),
		Timestamps: toUint64s(*abi.ConvertType(out[2], new([]*big.Int)).(*[]*big.Int)),
	}, nil
}

func toUint64s(values []*big.Int) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = v.Uint64()
	}
	return out
}
