// Package permission exposes the RoutePermission contract, which issues
// preauthorization verdicts for proposed routes.
package permission

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/chain"
	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

const permissionABI = `[
  {"type":"function","name":"checkRouteAuthorization","stateMutability":"view","inputs":[{"name":"request","type":"tuple","components":[{"name":"droneId","type":"uint256"},{"name":"route","type":"tuple","components":[{"name":"zones","type":"uint8[]"},{"name":"altitudeLimit","type":"uint256"}]}]}],"outputs":[{"name":"","type":"tuple","components":[{"name":"droneId","type":"uint256"},{"name":"preauthorizationStatus","type":"uint8"},{"name":"reason","type":"string"}]}]},
  {"type":"function","name":"requestRouteAuthorization","stateMutability":"nonpayable","inputs":[{"name":"request","type":"tuple","components":[{"name":"droneId","type":"uint256"},{"name":"route","type":"tuple","components":[{"name":"zones","type":"uint8[]"},{"name":"altitudeLimit","type":"uint256"}]}]}],"outputs":[{"name":"","type":"tuple","components":[{"name":"droneId","type":"uint256"},{"name":"preauthorizationStatus","type":"uint8"},{"name":"reason","type":"string"}]}]},
  {"type":"event","name":"RouteAuthorizationRequested","anonymous":false,"inputs":[{"name":"droneId","type":"uint256","indexed":true},{"name":"status","type":"uint8","indexed":false}]}
]`

type routeTuple struct {
	Zones         []uint8
	AltitudeLimit *big.Int
}

type requestTuple struct {
	DroneId *big.Int
	Route   routeTuple
}

type verdictTuple struct {
	DroneId                *big.Int
	PreauthorizationStatus uint8
	Reason                 string
}

// Service wraps the RoutePermission contract.
type Service struct {
	client   *chain.Client
	contract *chain.Contract
	log      zerolog.Logger
}

// New binds the RoutePermission contract at the given address.
func New(client *chain.Client, address string, log zerolog.Logger) (*Service, error) {
	contract, err := client.Bind("RoutePermission", address, permissionABI)
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		contract: contract,
		log:      log.With().Str("contract", "RoutePermission").Logger(),
	}, nil
}

func validateRequest(req domain.AuthorizationRequest) error {
	if req.DroneID < 1 {
		return domain.Validationf("a valid drone ID is required")
	}
	if len(req.Zones) == 0 {
		return domain.Validationf("at least one zone must be specified")
	}
	for _, z := range req.Zones {
		if !z.Valid() {
			return domain.Validationf("invalid zone type %d, valid types: %s",
				uint8(z), strings.Join(domain.ZoneTypeNames(), ", "))
		}
	}
	return nil
}

func encodeRequest(req domain.AuthorizationRequest) requestTuple {
	zones := make([]uint8, len(req.Zones))
	for i, z := range req.Zones {
		zones[i] = uint8(z)
	}
	return requestTuple{
		DroneId: new(big.Int).SetUint64(req.DroneID),
		Route: routeTuple{
			Zones:         zones,
			AltitudeLimit: new(big.Int).SetUint64(req.AltitudeLimit),
		},
	}
}

func decodeVerdict(t verdictTuple) domain.Authorization {
	return domain.Authorization{
		DroneID:                t.DroneId.Uint64(),
		PreauthorizationStatus: domain.PreAuthorizationStatus(t.PreauthorizationStatus).String(),
		Reason:                 t.Reason,
	}
}

// Check evaluates a route proposal without writing anything to the chain.
func (s *Service) Check(ctx context.Context, req domain.AuthorizationRequest) (*domain.Authorization, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out []interface{}
	if err := s.contract.Call(s.client.CallOpts(ctx), &out, "checkRouteAuthorization", encodeRequest(req)); err != nil {
		return nil, err
	}
	verdict := decodeVerdict(*abi.ConvertType(out[0], new(verdictTuple)).(*verdictTuple))
	return &verdict, nil
}

// Request records the authorization request on chain, then reads the final
// verdict back with the view entry point once the transaction confirmed.
func (s *Service) Request(ctx context.Context, req domain.AuthorizationRequest) (*domain.RequestedAuthorization, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	opts, err := s.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, "requestRouteAuthorization", encodeRequest(req))
	if err != nil {
		return nil, err
	}
	if _, err := s.client.WaitMined(ctx, tx); err != nil {
		return nil, err
	}

	verdict, err := s.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Uint64("drone_id", req.DroneID).
		Str("status", verdict.PreauthorizationStatus).
		Str("tx_hash", tx.Hash().Hex()).
		Msg("route authorization requested")
	return &domain.RequestedAuthorization{
		Response: *verdict,
		TxHash:   tx.Hash().Hex(),
	}, nil
}
