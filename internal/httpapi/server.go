// Package httpapi is the REST surface over the SkyLedger contract services.
// Handlers depend on narrow interfaces so tests can substitute fakes.
package httpapi

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/geo"
	"github.com/blockchain-unitn/skyledger-backend/internal/metrics"
	"github.com/blockchain-unitn/skyledger-backend/internal/middleware"
)

// =============================================================================
// Service interfaces
// =============================================================================

// ChainInfo is the slice of the chain client the status endpoint needs.
type ChainInfo interface {
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID() *big.Int
	From() common.Address
}

// ZonesService manages airspace zone records.
type ZonesService interface {
	Create(ctx context.Context, req domain.CreateZoneRequest) (*domain.CreateZoneResult, error)
	Update(ctx context.Context, zoneID uint64, req domain.UpdateZoneRequest) (*domain.TxResult, error)
	SetStatus(ctx context.Context, zoneID uint64, active bool) (*domain.TxResult, error)
	Delete(ctx context.Context, zoneID uint64) (*domain.TxResult, error)
	Get(ctx context.Context, zoneID uint64) (*domain.Zone, error)
	GetAll(ctx context.Context) ([]domain.Zone, error)
	Exists(ctx context.Context, zoneID uint64) (bool, error)
	Total(ctx context.Context) (uint64, error)
	ByType(ctx context.Context, zoneType domain.ZoneType, activeOnly bool) ([]uint64, error)
	Boundaries(ctx context.Context, zoneID uint64) ([]geo.Point, error)
}

// DronesService manages drone identity tokens.
type DronesService interface {
	Mint(ctx context.Context, req domain.MintDroneRequest) (*domain.MintDroneResult, error)
	Get(ctx context.Context, tokenID uint64) (*domain.Drone, error)
	GetAll(ctx context.Context) ([]domain.Drone, error)
	Total(ctx context.Context) (uint64, error)
	ByOwner(ctx context.Context, owner string) ([]domain.Drone, error)
	UpdateCertHashes(ctx context.Context, tokenID uint64, certHashes []string) (*domain.TxResult, error)
	UpdatePermittedZones(ctx context.Context, tokenID uint64, zones []domain.ZoneType) (*domain.TxResult, error)
	UpdateOwnerHistory(ctx context.Context, tokenID uint64, history []string) (*domain.TxResult, error)
	UpdateMaintenance(ctx context.Context, tokenID uint64, hash string) (*domain.TxResult, error)
	UpdateStatus(ctx context.Context, tokenID uint64, status domain.DroneStatus) (*domain.TxResult, error)
	Burn(ctx context.Context, tokenID uint64) (*domain.TxResult, error)
	Transfer(ctx context.Context, from, to string, tokenID uint64) (*domain.TxResult, error)
}

// OperatorsService manages the operator registry.
type OperatorsService interface {
	All(ctx context.Context) ([]string, error)
	Get(ctx context.Context, address string) (*domain.Operator, error)
	Register(ctx context.Context, operator string) (*domain.TxResult, error)
	SpendTokens(ctx context.Context, amount string) (*domain.TxResult, error)
	Penalize(ctx context.Context, operator, penalty string) (*domain.TxResult, error)
	AddAdmin(ctx context.Context, admin string) (*domain.TxResult, error)
	RemoveAdmin(ctx context.Context, admin string) (*domain.TxResult, error)
	ApproveTokens(ctx context.Context, amount string) (*domain.TxResult, error)
	Allowance(ctx context.Context) (string, error)
	Stats(ctx context.Context) (*domain.OperatorStats, error)
	ContractBalance(ctx context.Context) (string, error)
	Roles(ctx context.Context) (*domain.OperatorRoles, error)
	Probe(ctx context.Context) (*domain.ContractProbe, error)
}

// TokenService manages the reputation ERC-20 token.
type TokenService interface {
	Mint(ctx context.Context, to, amount string) (*domain.TxResult, error)
	Burn(ctx context.Context, from, amount string) (*domain.TxResult, error)
	Transfer(ctx context.Context, to, amount string) (*domain.TxResult, error)
	TransferFrom(ctx context.Context, from, to, amount string) (*domain.TxResult, error)
	Approve(ctx context.Context, spender, amount string) (*domain.TxResult, error)
	BalanceOf(ctx context.Context, address string) (*domain.Balance, error)
	Allowance(ctx context.Context, owner, spender string) (*domain.Allowance, error)
	TotalSupply(ctx context.Context) (string, error)
	Name(ctx context.Context) (string, error)
	Symbol(ctx context.Context) (string, error)
	Decimals(ctx context.Context) (uint8, error)
	Info(ctx context.Context) (*domain.TokenInfo, error)
}

// RouteLogService manages the append-only route log.
type RouteLogService interface {
	Log(ctx context.Context, req domain.LogRouteRequest) (*domain.LogRouteResult, error)
	Get(ctx context.Context, logID uint64) (*domain.RouteLog, error)
	GetMany(ctx context.Context, logIDs []uint64) []domain.RouteLog
	Count(ctx context.Context) (uint64, error)
	OfDrone(ctx context.Context, droneID uint64) ([]uint64, error)
	OfDronePaginated(ctx context.Context, droneID, offset, limit uint64) (*domain.LogPage, error)
	AuthorizedByUTM(ctx context.Context, utm string) (*domain.AuthorizedDrones, error)
	AuthorizedByUTMSafe(ctx context.Context, utm string, maxResults uint64) (*domain.AuthorizedDrones, error)
	ZonesOfLog(ctx context.Context, logID uint64) ([]domain.ZoneType, error)
	Recent(ctx context.Context, offset, limit uint64) (*domain.LogPage, error)
}

// PermissionService issues route preauthorization verdicts.
type PermissionService interface {
	Check(ctx context.Context, req domain.AuthorizationRequest) (*domain.Authorization, error)
	Request(ctx context.Context, req domain.AuthorizationRequest) (*domain.RequestedAuthorization, error)
}

// ViolationsService manages the violations record.
type ViolationsService interface {
	Report(ctx context.Context, req domain.ReportViolationRequest) (*domain.TxResult, error)
	Count(ctx context.Context) (uint64, error)
	Get(ctx context.Context, index uint64) (*domain.Violation, error)
	ByDrone(ctx context.Context, droneID string) (*domain.DroneViolations, error)
	All(ctx context.Context) (*domain.AllViolations, error)
}

// =============================================================================
// Server
// =============================================================================

// Config wires the server's dependencies.
type Config struct {
	Logger            zerolog.Logger
	Chain             ChainInfo
	ContractAddresses map[string]string
	AllowedOrigins    []string
	RateLimit         int
	RateBurst         int

	Zones       ZonesService
	Drones      DronesService
	Operators   OperatorsService
	Tokens      TokenService
	Routes      RouteLogService
	Permissions PermissionService
	Violations  ViolationsService
}

// Server is the assembled REST API.
type Server struct {
	log       zerolog.Logger
	started   time.Time
	chain     ChainInfo
	contracts map[string]string

	zones       ZonesService
	drones      DronesService
	operators   OperatorsService
	tokens      TokenService
	routes      RouteLogService
	permissions PermissionService
	violations  ViolationsService

	handler http.Handler
}

// New builds the router with the full middleware chain.
func New(cfg Config) *Server {
	s := &Server{
		log:         cfg.Logger,
		started:     time.Now(),
		chain:       cfg.Chain,
		contracts:   cfg.ContractAddresses,
		zones:       cfg.Zones,
		drones:      cfg.Drones,
		operators:   cfg.Operators,
		tokens:      cfg.Tokens,
		routes:      cfg.Routes,
		permissions: cfg.Permissions,
		violations:  cfg.Violations,
	}

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(cfg.Logger))
	r.Use(middleware.MetricsMiddleware())

	r.HandleFunc("/", s.handleBanner).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/blockchain/status", s.handleChainStatus).Methods(http.MethodGet)

	s.registerZoneRoutes(r.PathPrefix("/api/zones").Subrouter())
	s.registerDroneRoutes(r.PathPrefix("/api/drones").Subrouter())
	s.registerOperatorRoutes(r.PathPrefix("/api/operators").Subrouter())
	s.registerTokenRoutes(r.PathPrefix("/api/tokens").Subrouter())
	s.registerRouteLogRoutes(r.PathPrefix("/api/routes").Subrouter())
	s.registerPermissionRoutes(r.PathPrefix("/api/permissions").Subrouter())
	s.registerViolationRoutes(r.PathPrefix("/api/violations").Subrouter())

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	var h http.Handler = r
	if cfg.RateLimit > 0 {
		h = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Handler(h)
	}
	h = middleware.NewCORSMiddleware(cfg.AllowedOrigins).Handler(h)
	s.handler = h
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// =============================================================================
// Meta endpoints
// =============================================================================

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]interface{}{
		"name":    "SkyLedger Backend",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":     "/health",
			"metrics":    "/metrics",
			"blockchain": "/api/blockchain/status",
			"zones":      "/api/zones",
			"drones":     "/api/drones",
			"operators":  "/api/operators",
			"tokens":     "/api/tokens",
			"routes":     "/api/routes",
			"permission": "/api/permissions",
			"violations": "/api/violations",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(s.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleChainStatus(w http.ResponseWriter, r *http.Request) {
	block, err := s.chain.BlockNumber(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"blockNumber": block,
		"chainId":     s.chain.ChainID().String(),
		"signer":      s.chain.From().Hex(),
		"contracts":   s.contracts,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, apiResponse{
		Success: false,
		Error:   "route not found: " + r.Method + " " + r.URL.Path,
	})
}
