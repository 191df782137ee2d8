// Package zones exposes the Zones contract: polygonal airspace volumes with
// altitude bands and an activity flag.
package zones

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/geo"
)

const zonesABI = `[
  {"type":"function","name":"createZone","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"zoneType","type":"uint8"},{"name":"boundaries","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"maxAltitude","type":"uint256"},{"name":"minAltitude","type":"uint256"},{"name":"description","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"updateZone","stateMutability":"nonpayable","inputs":[{"name":"zoneId","type":"uint256"},{"name":"name","type":"string"},{"name":"boundaries","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"maxAltitude","type":"uint256"},{"name":"minAltitude","type":"uint256"},{"name":"description","type":"string"}],"outputs":[]},
  {"type":"function","name":"setZoneStatus","stateMutability":"nonpayable","inputs":[{"name":"zoneId","type":"uint256"},{"name":"isActive","type":"bool"}],"outputs":[]},
  {"type":"function","name":"deleteZone","stateMutability":"nonpayable","inputs":[{"name":"zoneId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getZone","stateMutability":"view","inputs":[{"name":"zoneId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"id","type":"uint256"},{"name":"name","type":"string"},{"name":"zoneType","type":"uint8"},{"name":"boundaries","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"maxAltitude","type":"uint256"},{"name":"minAltitude","type":"uint256"},{"name":"isActive","type":"bool"},{"name":"description","type":"string"},{"name":"createdAt","type":"uint256"},{"name":"updatedAt","type":"uint256"}]}]},
  {"type":"function","name":"getZonesByType","stateMutability":"view","inputs":[{"name":"zoneType","type":"uint8"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"getActiveZonesByType","stateMutability":"view","inputs":[{"name":"zoneType","type":"uint8"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"getZoneBoundaries","stateMutability":"view","inputs":[{"name":"zoneId","type":"uint256"}],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]}]},
  {"type":"function","name":"zoneExists","stateMutability":"view","inputs":[{"name":"zoneId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getTotalZones","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"ZoneCreated","anonymous":false,"inputs":[{"name":"zoneId","type":"uint256","indexed":true},{"name":"name","type":"string","indexed":false},{"name":"zoneType","type":"uint8","indexed":false}]},
  {"type":"event","name":"ZoneUpdated","anonymous":false,"inputs":[{"name":"zoneId","type":"uint256","indexed":true},{"name":"name","type":"string","indexed":false}]},
  {"type":"event","name":"ZoneStatusChanged","anonymous":false,"inputs":[{"name":"zoneId","type":"uint256","indexed":true},{"name":"isActive","type":"bool","indexed":false}]},
  {"type":"event","name":"ZoneDeleted","anonymous":false,"inputs":[{"name":"zoneId","type":"uint256","indexed":true}]}
]`

// pointTuple mirrors the contract's (int256 latitude, int256 longitude) pair.
type pointTuple struct {
	Latitude  *big.Int
	Longitude *big.Int
}

type zoneTuple struct {
	Id          *big.Int
	Name        string
	ZoneType    uint8
	Boundaries  []pointTuple
	MaxAltitude *big.Int
	MinAltitude *big.Int
	IsActive    bool
	Description string
	CreatedAt   *big.Int
	UpdatedAt   *big.Int
}

// Service wraps the Zones contract. Stateless and safe for concurrent use.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger
	created  common.Hash
}

// New binds the Zones contract at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("Zones", address, zonesABI)
	if err != nil {
		return nil, err
	}
	created, err := contract.EventID("ZoneCreated")
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "Zones").Logger(),
		created:  created,
	}, nil
}

func validateGeometry(boundaries []geo.Point, maxAltitude, minAltitude uint64) error {
	if len(boundaries) < 3 {
		return domain.Validationf("at least 3 boundary points are required, got %d", len(boundaries))
	}
	if maxAltitude <= minAltitude {
		return domain.Validationf("maxAltitude (%d) must be greater than minAltitude (%d)", maxAltitude, minAltitude)
	}
	return nil
}

func encodeBoundaries(points []geo.Point) []pointTuple {
	out := make([]pointTuple, len(points))
	for i, p := range points {
		lat, lng := geo.EncodePoint(p)
		out[i] = pointTuple{Latitude: lat, Longitude: lng}
	}
	return out
}

func decodeBoundaries(tuples []pointTuple) []geo.Point {
	out := make([]geo.Point, len(tuples))
	for i, t := range tuples {
		out[i] = geo.DecodePoint(t.Latitude, t.Longitude)
	}
	return out
}

// Create registers a new zone and derives its identifier from the ZoneCreated
// event in the receipt.
func (s *Service) Create(ctx context.Context, req domain.CreateZoneRequest) (*domain.CreateZoneResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.Validationf("zone name is required")
	}
	if !req.ZoneType.Valid() {
		return nil, domain.Validationf("invalid zone type %d, valid types: %s",
			uint8(req.ZoneType), strings.Join(domain.ZoneTypeNames(), ", "))
	}
	if err := validateGeometry(req.Boundaries, req.MaxAltitude, req.MinAltitude); err != nil {
		return nil, err
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "createZone",
		req.Name,
		uint8(req.ZoneType),
		encodeBoundaries(req.Boundaries),
		new(big.Int).SetUint64(req.MaxAltitude),
		new(big.Int).SetUint64(req.MinAltitude),
		req.Description,
	)
	if err != nil {
		return nil, err
	}
	receipt, err := s.client.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}

	var zoneID uint64
	if id, ok := chain.IndexedBigInt(receipt, s.created, 1); ok {
		zoneID = id.Uint64()
	}
	s.log.Info().Uint64("zone_id", zoneID).Str("tx_hash", tx.Hash().Hex()).Msg("zone created")
	return &domain.CreateZoneResult{ZoneID: zoneID, TxHash: tx.Hash().Hex()}, nil
}

// Update replaces the geometry and metadata of an existing zone.
func (s *Service) Update(ctx context.Context, zoneID uint64, req domain.UpdateZoneRequest) (*domain.TxResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.Validationf("zone name is required")
	}
	if err := validateGeometry(req.Boundaries, req.MaxAltitude, req.MinAltitude); err != nil {
		return nil, err
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "updateZone",
		new(big.Int).SetUint64(zoneID),
		req.Name,
		encodeBoundaries(req.Boundaries),
		new(big.Int).SetUint64(req.MaxAltitude),
		new(big.Int).SetUint64(req.MinAltitude),
		req.Description,
	)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	s.log.Info().Uint64("zone_id", zoneID).Str("tx_hash", tx.Hash().Hex()).Msg("zone updated")
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// SetStatus flips the zone's active flag.
func (s *Service) SetStatus(ctx context.Context, zoneID uint64, active bool) (*domain.TxResult, error) {
	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "setZoneStatus", new(big.Int).SetUint64(zoneID), active)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// Delete removes a zone. Reads of the identifier afterwards revert, which
// listing code treats as a skip.
func (s *Service) Delete(ctx context.Context, zoneID uint64) (*domain.TxResult, error) {
	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "deleteZone", new(big.Int).SetUint64(zoneID))
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}
	s.log.Info().Uint64("zone_id", zoneID).Str("tx_hash", tx.Hash().Hex()).Msg("zone deleted")
	return &domain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

// Get reads one zone record.
func (s *Service) Get(ctx context.Context, zoneID uint64) (*domain.Zone, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getZone", new(big.Int).SetUint64(zoneID)); err != nil {
		return nil, err
	}
	t := *abi.ConvertType(out[0], new(zoneTuple)).(*zoneTuple)
	zone := decodeZone(t)
	return &zone, nil
}

// GetAll walks identifiers 1..total and skips deleted zones.
func (s *Service) GetAll(ctx context.Context) ([]domain.Zone, error) {
	total, err := s.Total(ctx)
	if err != nil {
		return nil, err
	}
	zones := make([]domain.Zone, 0, total)
	for id := uint64(1); id <= total; id++ {
		zone, err := s.Get(ctx, id)
		if err != nil {
			continue // deleted
		}
		zones = append(zones, *zone)
	}
	return zones, nil
}

// Exists reports whether a zone identifier is live.
func (s *Service) Exists(ctx context.Context, zoneID uint64) (bool, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "zoneExists", new(big.Int).SetUint64(zoneID)); err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// Total returns the number of zones ever created, deleted ones included.
func (s *Service) Total(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getTotalZones"); err != nil {
		return 0, err
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

// ByType lists zone identifiers of one classification, optionally filtered
// to active zones.
func (s *Service) ByType(ctx context.Context, zoneType domain.ZoneType, activeOnly bool) ([]uint64, error) {
	if !zoneType.Valid() {
		return nil, domain.Validationf("invalid zone type %d, valid types: %s",
			uint8(zoneType), strings.Join(domain.ZoneTypeNames(), ", "))
	}
	method := "getZonesByType"
	if activeOnly {
		method = "getActiveZonesByType"
	}
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, method, uint8(zoneType)); err != nil {
		return nil, err
	}
	ids := *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)
	return toUint64s(ids), nil
}

// Boundaries reads the polygon of one zone.
func (s *Service) Boundaries(ctx context.Context, zoneID uint64) ([]geo.Point, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getZoneBoundaries", new(big.Int).SetUint64(zoneID)); err != nil {
		return nil, err
	}
	tuples := *abi.ConvertType(out[0], new([]pointTuple)).(*[]pointTuple)
	return decodeBoundaries(tuples), nil
}

func decodeZone(t zoneTuple) domain.Zone {
	return domain.Zone{
		ID:          t.Id.Uint64(),
		Name:        t.Name,
		ZoneType:    domain.ZoneType(t.ZoneType).String(),
		Boundaries:  decodeBoundaries(t.Boundaries),
		MaxAltitude: t.MaxAltitude.Uint64(),
		MinAltitude: t.MinAltitude.Uint64(),
		IsActive:    t.IsActive,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Uint64(),
		UpdatedAt:   t.UpdatedAt.Uint64(),
	}
}

func toUint64s(ids []*big.Int) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = id.Uint64()
	}
	return out
}
