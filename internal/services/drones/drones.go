// Package drones exposes the DroneIdentityNFT contract: one ERC-721 token
// per registered airframe, carrying its certification and zone permissions.
package drones

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

const dronesABI = `[
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"serialNumber","type":"string"},{"name":"model","type":"string"},{"name":"droneType","type":"uint8"},{"name":"certHashes","type":"string[]"},{"name":"permittedZones","type":"uint8[]"},{"name":"ownerHistory","type":"string[]"},{"name":"maintenanceHash","type":"string"},{"name":"status","type":"uint8"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getDroneData","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"serialNumber","type":"string"},{"name":"model","type":"string"},{"name":"droneType","type":"uint8"},{"name":"certHashes","type":"string[]"},{"name":"permittedZones","type":"uint8[]"},{"name":"ownerHistory","type":"string[]"},{"name":"maintenanceHash","type":"string"},{"name":"status","type":"uint8"}]}]},
  {"type":"function","name":"updateCertHashes","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"newCertHashes","type":"string[]"}],"outputs":[]},
  {"type":"function","name":"updatePermittedZones","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"newZones","type":"uint8[]"}],"outputs":[]},
  {"type":"function","name":"updateOwnerHistory","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"newOwnerHistory","type":"string[]"}],"outputs":[]},
  {"type":"function","name":"updateMaintenanceHash","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"newHash","type":"string"}],"outputs":[]},
  {"type":"function","name":"updateStatus","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"newStatus","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"burnDrone","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getAllDrones","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]}
]`

type droneTuple struct {
	SerialNumber    string
	Model           string
	DroneType       uint8
	CertHashes      []string
	PermittedZones  []uint8
	OwnerHistory    []string
	MaintenanceHash string
	Status          uint8
}

// Service wraps the DroneIdentityNFT contract.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger
	transfer common.Hash
}

// New binds the DroneIdentityNFT contract at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("DroneIdentityNFT", address, dronesABI)
	if err != nil {
		return nil, err
	}
	transfer, err := contract.EventID("Transfer")
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "DroneIdentityNFT").Logger(),
		transfer: transfer,
	}, nil
}

// Mint registers a new drone identity to the configured signer and derives
// the token identifier from the ERC-721 Transfer event.
func (s *Service) Mint(ctx context.Context, req domain.MintDroneRequest) (*domain.MintDroneResult, error) {
	if strings.TrimSpace(req.SerialNumber) == "" {
		return nil, domain.Validationf("serialNumber is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, domain.Validationf("model is required")
	}
	if !req.DroneType.Valid() {
		return nil, domain.Validationf("invalid drone type %d", uint8(req.DroneType))
	}
	if !req.Status.Valid() {
		return nil, domain.Validationf("invalid drone status %d", uint8(req.Status))
	}
	zones, err := encodeZones(req.PermittedZones)
	if err != nil {
		return nil, err
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "mint",
		s.client.From(),
		req.SerialNumber,
		req.Model,
		uint8(req.DroneType),
		req.CertHashes,
		zones,
		req.OwnerHistory,
		req.MaintenanceHash,
		uint8(req.Status),
	)
	if err != nil {
		return nil, err
	}
	receipt, err := s.client.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}

	var tokenID uint64
	if id, ok := chain.IndexedBigInt(receipt, s.transfer, 3); ok {
		tokenID = id.Uint64()
	}
	s.log.Info().Uint64("token_id", tokenID).Str("tx_hash", tx.Hash().Hex()).Msg("drone minted")
	return &domain.MintDroneResult{TokenID: tokenID, TxHash: tx.Hash().Hex()}, nil
}

// Get reads one drone record together with its current owner.
func (s *Service) Get(ctx context.Context, tokenID uint64) (*domain.Drone, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getDroneData", new(big.Int).SetUint64(tokenID)); err != nil {
		return nil, err
	}
	t := *abi.ConvertType(out[0], new(droneTuple)).(*droneTuple)

	var ownerOut []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &ownerOut, "ownerOf", new(big.Int).SetUint64(tokenID)); err != nil {
		return nil, err
	}
	owner := *abi.ConvertType(ownerOut[0], new(common.Address)).(*common.Address)

	drone := decodeDrone(tokenID, t, owner)
	return &drone, nil
}

// GetAll reads every live drone, skipping tokens burned mid-iteration.
func (s *Service) GetAll(ctx context.Context) ([]domain.Drone, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getAllDrones"); err != nil {
		return nil, err
	}
	ids := *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)

	drones := make([]domain.Drone, 0, len(ids))
	for _, id := range ids {
		drone, err := s.Get(ctx, id.Uint64())
		if err != nil {
			continue // burned
		}
		drones = append(drones, *drone)
	}
	return drones, nil
}

// Total returns the live token count.
func (s *Service) Total(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "totalSupply"); err != nil {
		return 0, err
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

// ByOwner enumerates the drones held by one account.
func (s *Service) ByOwner(ctx context.Context, owner string) ([]domain.Drone, error) {
	addr, err := chain.ParseAddress(owner)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "balanceOf", addr); err != nil {
		return nil, err
	}
	balance := (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64()

	drones := make([]domain.Drone, 0, balance)
	for i := uint64(0); i < balance; i++ {
		var idOut []interface{}
		if err := s.contract.Call(s.client.CallOpts(ctx), &idOut, "tokenOfOwnerByIndex", addr, new(big.Int).SetUint64(i)); err != nil {
			continue
		}
		tokenID := (*abi.ConvertType(idOut[0], new(*big.Int)).(**big.Int)).Uint64()
		drone, err := s.Get(ctx, tokenID)
		if err != nil {
			continue
		}
		drones = append(drones, *drone)
	}
	return drones, nil
}

// UpdateCertHashes replaces the certification hash list.
func (s *Service) UpdateCertHashes(ctx context.Context, tokenID uint64, certHashes []string) (*domain.TxResult, error) {
	if len(certHashes) == 0 {
		return nil, domain.Validationf("certHashes must not be empty")
	}
	return s.transact(ctx, "updateCertHashes", new(big.Int).SetUint64(tokenID), certHashes)
}

// UpdatePermittedZones replaces the zone permission list.
func (s *Service) UpdatePermittedZones(ctx context.Context, tokenID uint64, zones []domain.ZoneType) (*domain.TxResult, error) {
	if len(zones) == 0 {
		return nil, domain.Validationf("permittedZones must not be empty")
	}
	encoded, err := encodeZones(zones)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, "updatePermittedZones", new(big.Int).SetUint64(tokenID), encoded)
}

// UpdateOwnerHistory replaces the recorded chain of custody.
func (s *Service) UpdateOwnerHistory(ctx context.Context, tokenID uint64, history []string) (*domain.TxResult, error) {
	if len(history) == 0 {
		return nil, domain.Validationf("ownerHistory must not be empty")
	}
	return s.transact(ctx, "updateOwnerHistory", new(big.Int).SetUint64(tokenID), history)
}

// UpdateMaintenance replaces the maintenance record hash.
func (s *Service) UpdateMaintenance(ctx context.Context, tokenID uint64, hash string) (*domain.TxResult, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, domain.Validationf("maintenanceHash is required")
	}
	return s.transact(ctx, "updateMaintenanceHash", new(big.Int).SetUint64(tokenID), hash)
}

// UpdateStatus moves the drone through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, tokenID uint64, status domain.DroneStatus) (*domain.TxResult, error) {
	if !status.Valid() {
		return nil, domain.Validationf("invalid drone status %d", uint8(status))
	}
	return s.transact(ctx, "updateStatus", new(big.Int).SetUint64(tokenID), uint8(status))
}

// Burn retires a drone identity permanently.
func (s *Service) Burn(ctx context.Context, tokenID uint64) (*domain.TxResult, error) {
	res, err := s.transact(ctx, "burnDrone", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint64("token_id", tokenID).Str("tx_hash", res.TxHash).Msg("drone burned")
	return res, nil
}

// Transfer moves a drone identity between accounts.
func (s *Service) Transfer(ctx context.Context, from, to string, tokenID uint64) (*domain.TxResult, error) {
	fromAddr, err := chain.ParseAddress(from)
	if err != nil {
		return nil, domain.Validationf("from: %v", err)
	}
	toAddr, err := chain.ParseAddress(to)
	if err != nil {
		return nil, domain.Validationf("to: %v", err)
	}
	return s.transact(ctx, "transferFrom", fromAddr, toAddr, new(big.Int).SetUint64(tokenID))
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

func encodeZones(zones []domain.ZoneType) ([]uint8, error) {
	out := make([]uint8, len(zones))
	for i, z := range zones {
		if !z.Valid() {
			return nil, domain.Validationf("invalid zone type %d, valid types: %s",
				uint8(z), strings.Join(domain.ZoneTypeNames(), ", "))
		}
		out[i] = uint8(z)
	}
	return out, nil
}

func decodeDrone(tokenID uint64, t droneTuple, owner common.Address) domain.Drone {
	zones := make([]string, len(t.PermittedZones))
	for i, z := range t.PermittedZones {
		zones[i] = domain.ZoneType(z).String()
	}
	return domain.Drone{
		TokenID:         tokenID,
		Owner:           owner.Hex(),
		SerialNumber:    t.SerialNumber,
		Model:           t.Model,
		DroneType:       domain.DroneType(t.DroneType).String(),
		CertHashes:      t.CertHashes,
		PermittedZones:  zones,
		OwnerHistory:    t.OwnerHistory,
		MaintenanceHash: t.MaintenanceHash,
		Status:          domain.DroneStatus(t.Status).String(),
	}
}
