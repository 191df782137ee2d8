// Package routelog exposes the RouteLogging contract: an append-only record
// of flown routes with per-drone and per-authorizer indexes.
package routelog

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

// Pagination clamps. Unbounded reads against a growing log either time out
// or blow the node's gas cap, so limits are enforced server-side.
const (
	MaxPageLimit     = 100
	DefaultPageLimit = 10
	MaxSafeResults   = 50
	DefaultSafeLimit = 20
)

const routeLogABI = `[
  {"type":"function","name":"logRoute","stateMutability":"nonpayable","inputs":[{"name":"droneId","type":"uint256"},{"name":"utmAuthorizer","type":"address"},{"name":"zones","type":"uint8[]"},{"name":"startPoint","type":"tuple","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"endPoint","type":"tuple","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"route","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"status","type":"uint8"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getLog","stateMutability":"view","inputs":[{"name":"logId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"timestamp","type":"uint256"},{"name":"droneId","type":"uint256"},{"name":"utmAuthorizer","type":"address"},{"name":"zones","type":"uint8[]"},{"name":"startPoint","type":"tuple","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"endPoint","type":"tuple","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"route","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}]},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"status","type":"uint8"}]}]},
  {"type":"function","name":"getLogsCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getLogsOfDrone","stateMutability":"view","inputs":[{"name":"droneId","type":"uint256"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"getLogsOfDronePaginated","stateMutability":"view","inputs":[{"name":"droneId","type":"uint256"},{"name":"offset","type":"uint256"},{"name":"limit","type":"uint256"}],"outputs":[{"name":"logIds","type":"uint256[]"},{"name":"total","type":"uint256"}]},
  {"type":"function","name":"getDronesAuthorizedByUTM","stateMutability":"view","inputs":[{"name":"utm","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"getDronesAuthorizedByUTMSafe","stateMutability":"view","inputs":[{"name":"utm","type":"address"},{"name":"maxResults","type":"uint256"}],"outputs":[{"name":"","type":"uint256[]"},{"name":"","type":"bool"}]},
  {"type":"function","name":"getZonesOfLog","stateMutability":"view","inputs":[{"name":"logId","type":"uint256"}],"outputs":[{"name":"","type":"uint8[]"}]},
  {"type":"event","name":"RouteLogged","anonymous":false,"inputs":[{"name":"logId","type":"uint256","indexed":true},{"name":"timestamp","type":"uint256","indexed":false},{"name":"droneId","type":"uint256","indexed":false},{"name":"utmAuthorizer","type":"address","indexed":false},{"name":"zones","type":"uint8[]","indexed":false},{"name":"startPoint","type":"tuple","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}],"indexed":false},{"name":"endPoint","type":"tuple","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}],"indexed":false},{"name":"route","type":"tuple[]","components":[{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"}],"indexed":false},{"name":"startTime","type":"uint256","indexed":false},{"name":"endTime","type":"uint256","indexed":false},{"name":"status","type":"uint8","indexed":false}]}
]`

type pointTuple struct {
	Latitude  *big.Int
	Longitude *big.Int
}

type logTuple struct {
	Timestamp     *big.Int
	DroneId       *big.Int
	UtmAuthorizer common.Address
	Zones         []uint8
	StartPoint    pointTuple
	EndPoint      pointTuple
	Route         []pointTuple
	StartTime     *big.Int
	EndTime       *big.Int
	Status        uint8
}

// Service wraps the RouteLogging contract.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger
	logged   common.Hash
}

// New binds the RouteLogging contract at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("RouteLogging", address, routeLogABI)
	if err != nil {
		return nil, err
	}
	logged, err := contract.EventID("RouteLogged")
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "RouteLogging").Logger(),
		logged:   logged,
	}, nil
}

// Log appends a flown route and derives the log identifier from the
// RouteLogged event.
func (s *Service) Log(ctx context.Context, req domain.LogRouteRequest) (*domain.LogRouteResult, error) {
	utm, err := chain.ParseAddress(req.UTMAuthorizer)
	if err != nil {
		return nil, domain.Validationf("utmAuthorizer: %v", err)
	}
	if len(req.Zones) == 0 {
		return nil, domain.Validationf("at least one zone is required")
	}
	zones := make([]uint8, len(req.Zones))
	for i, z := range req.Zones {
		if !z.Valid() {
			return nil, domain.Validationf("invalid zone type %d, valid types: %s",
				uint8(z), strings.Join(domain.ZoneTypeNames(), ", "))
		}
		zones[i] = uint8(z)
	}
	if !req.Status.Valid() {
		return nil, domain.Validationf("invalid route status %d, valid statuses: %s",
			uint8(req.Status), strings.Join(domain.RouteStatusNames(), ", "))
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "logRoute",
		new(big.Int).SetUint64(req.DroneID),
		utm,
		zones,
		encodePoint(req.StartPoint),
		encodePoint(req.EndPoint),
		encodePoints(req.Route),
		new(big.Int).SetUint64(req.StartTime),
		new(big.Int).SetUint64(req.EndTime),
		uint8(req.Status),
	)
	if err != nil {
		return nil, err
	}
	receipt, err := s.client.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}

	var logID uint64
	if id, ok := chain.IndexedBigInt(receipt, s.logged, 1); ok {
		logID = id.Uint64()
	}
	s.log.Info().Uint64("log_id", logID).Uint64("drone_id", req.DroneID).Str("tx_hash", tx.Hash().Hex()).Msg("route logged")
	return &domain.LogRouteResult{LogID: logID, TxHash: tx.Hash().Hex()}, nil
}

// Get reads one route log record.
func (s *Service) Get(ctx context.Context, logID uint64) (*domain.RouteLog, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getLog", new(big.Int).SetUint64(logID)); err != nil {
		return nil, err
	}
	t := *abi.ConvertType(out[0], new(logTuple)).(*logTuple)
	record := decodeLog(logID, t)
	return &record, nil
}

// GetMany reads a batch of logs, skipping identifiers that fail.
func (s *Service) GetMany(ctx context.Context, logIDs []uint64) []domain.RouteLog {
	logs := make([]domain.RouteLog, 0, len(logIDs))
	for _, id := range logIDs {
		record, err := s.Get(ctx, id)
		if err != nil {
			s.log.Warn().Uint64("log_id", id).Err(err).Msg("skipping unreadable log")
			continue
		}
		logs = append(logs, *record)
	}
	return logs
}

// Count returns the total number of logged routes.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getLogsCount"); err != nil {
		return 0, err
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

// OfDrone lists every log identifier of one drone.
func (s *Service) OfDrone(ctx context.Context, droneID uint64) ([]uint64, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getLogsOfDrone", new(big.Int).SetUint64(droneID)); err != nil {
		return nil, err
	}
	return toUint64s(*abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)), nil
}

// OfDronePaginated reads one page of a drone's log identifiers. The limit is
// clamped to [1, MaxPageLimit] with DefaultPageLimit for out-of-range input.
func (s *Service) OfDronePaginated(ctx context.Context, droneID, offset, limit uint64) (*domain.LogPage, error) {
	limit = clampLimit(limit, MaxPageLimit, DefaultPageLimit)

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getLogsOfDronePaginated",
		new(big.Int).SetUint64(droneID), new(big.Int).SetUint64(offset), new(big.Int).SetUint64(limit)); err != nil {
		return nil, err
	}
	ids := toUint64s(*abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int))
	total := (*abi.ConvertType(out[1], new(*big.Int)).(**big.Int)).Uint64()

	return &domain.LogPage{
		LogIDs:  ids,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+limit < total,
	}, nil
}

// AuthorizedByUTM lists every drone whose routes one UTM authorized.
func (s *Service) AuthorizedByUTM(ctx context.Context, utm string) (*domain.AuthorizedDrones, error) {
	addr, err := chain.ParseAddress(utm)
	if err != nil {
		return nil, domain.Validationf("utm: %v", err)
	}
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getDronesAuthorizedByUTM", addr); err != nil {
		return nil, err
	}
	return &domain.AuthorizedDrones{
		DroneIDs: toUint64s(*abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)),
		UTM:      addr.Hex(),
	}, nil
}

// AuthorizedByUTMSafe is the bounded variant; maxResults is clamped to
// [1, MaxSafeResults] with DefaultSafeLimit for out-of-range input.
func (s *Service) AuthorizedByUTMSafe(ctx context.Context, utm string, maxResults uint64) (*domain.AuthorizedDrones, error) {
	addr, err := chain.ParseAddress(utm)
	if err != nil {
		return nil, domain.Validationf("utm: %v", err)
	}
	maxResults = clampLimit(maxResults, MaxSafeResults, DefaultSafeLimit)

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getDronesAuthorizedByUTMSafe", addr, new(big.Int).SetUint64(maxResults)); err != nil {
		return nil, err
	}
	hasMore := *abi.ConvertType(out[1], new(bool)).(*bool)
	return &domain.AuthorizedDrones{
		DroneIDs: toUint64s(*abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)),
		HasMore:  &hasMore,
		UTM:      addr.Hex(),
	}, nil
}

// ZonesOfLog reads the zone ordinals of one log.
func (s *Service) ZonesOfLog(ctx context.Context, logID uint64) ([]domain.ZoneType, error) {
	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "getZonesOfLog", new(big.Int).SetUint64(logID)); err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new([]uint8)).(*[]uint8)
	zones := make([]domain.ZoneType, len(raw))
	for i, z := range raw {
		zones[i] = domain.ZoneType(z)
	}
	return zones, nil
}

// Recent pages log identifiers newest-first without a contract-side index:
// identifiers are sequential from 0, so the window is computed from the
// total count. An offset at or past the end yields an empty page.
func (s *Service) Recent(ctx context.Context, offset, limit uint64) (*domain.LogPage, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	return recentWindow(total, offset, clampLimit(limit, MaxPageLimit, DefaultPageLimit)), nil
}

func recentWindow(total, offset, limit uint64) *domain.LogPage {
	if offset >= total {
		return &domain.LogPage{
			LogIDs:  []uint64{},
			Total:   total,
			Offset:  offset,
			Limit:   limit,
			HasMore: false,
		}
	}

	end := total - offset
	start := uint64(0)
	if end > limit {
		start = end - limit
	}
	ids := make([]uint64, 0, end-start)
	for i := end; i > start; i-- {
		ids = append(ids, i-1)
	}

	return &domain.LogPage{
		LogIDs:  ids,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+limit < total,
	}
}

func clampLimit(v, max, def uint64) uint64 {
	if v > max {
		return max
	}
	if v < 1 {
		return def
	}
	return v
}

func encodePoint(p geo.Point) pointTuple {
	lat, lng := geo.EncodePoint(p)
	return pointTuple{Latitude: lat, Longitude: lng}
}

func encodePoints(points []geo.Point) []pointTuple {
	out := make([]pointTuple, len(points))
	for i, p := range points {
		out[i] = encodePoint(p)
	}
	return out
}

func decodeLog(logID uint64, t logTuple) domain.RouteLog {
	zones := make([]domain.ZoneType, len(t.Zones))
	for i, z := range t.Zones {
		zones[i] = domain.ZoneType(z)
	}
	route := make([]geo.Point, len(t.Route))
	for i, p := range t.Route {
		route[i] = geo.DecodePoint(p.Latitude, p.Longitude)
	}
	return domain.RouteLog{
		LogID:         logID,
		Timestamp:     t.Timestamp.Uint64(),
		DroneID:       t.DroneId.Uint64(),
		UTMAuthorizer: t.UtmAuthorizer.Hex(),
		Zones:         zones,
		StartPoint:    geo.DecodePoint(t.StartPoint.Latitude, t.StartPoint.Longitude),
		EndPoint:      geo.DecodePoint(t.EndPoint.Latitude, t.EndPoint.Longitude),
		Route:         route,
		StartTime:     t.StartTime.Uint64(),
		EndTime:       t.EndTime.Uint64(),
		Status:        domain.RouteStatus(t.Status),
	}
}

func toUint64s(ids []*big.Int) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = id.Uint64()
	}
	return out
}
