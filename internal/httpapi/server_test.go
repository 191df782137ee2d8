package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
	"github.com/blockchain-unitn/skyledger-backend/internal/geo"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeChain struct {
	block uint64
	err   error
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) { return f.block, f.err }
func (f *fakeChain) ChainID() *big.Int                           { return big.NewInt(1337) }
func (f *fakeChain) From() common.Address {
	return common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
}

type fakeZones struct {
	err      error
	created  *domain.CreateZoneResult
	zones    []domain.Zone
	total    uint64
	exists   bool
	ids      []uint64
	lastCall string
}

func (f *fakeZones) Create(_ context.Context, req domain.CreateZoneRequest) (*domain.CreateZoneResult, error) {
	f.lastCall = "Create"
	return f.created, f.err
}

func (f *fakeZones) Update(context.Context, uint64, domain.UpdateZoneRequest) (*domain.TxResult, error) {
	f.lastCall = "Update"
	return &domain.TxResult{TxHash: "0xabc"}, f.err
}

func (f *fakeZones) SetStatus(context.Context, uint64, bool) (*domain.TxResult, error) {
	f.lastCall = "SetStatus"
	return &domain.TxResult{TxHash: "0xabc"}, f.err
}

func (f *fakeZones) Delete(context.Context, uint64) (*domain.TxResult, error) {
	f.lastCall = "Delete"
	return &domain.TxResult{TxHash: "0xabc"}, f.err
}

func (f *fakeZones) Get(context.Context, uint64) (*domain.Zone, error) {
	f.lastCall = "Get"
	if len(f.zones) == 0 {
		return nil, f.err
	}
	return &f.zones[0], f.err
}

func (f *fakeZones) GetAll(context.Context) ([]domain.Zone, error) {
	f.lastCall = "GetAll"
	return f.zones, f.err
}

func (f *fakeZones) Exists(context.Context, uint64) (bool, error) {
	f.lastCall = "Exists"
	return f.exists, f.err
}

func (f *fakeZones) Total(context.Context) (uint64, error) {
	f.lastCall = "Total"
	return f.total, f.err
}

func (f *fakeZones) ByType(context.Context, domain.ZoneType, bool) ([]uint64, error) {
	f.lastCall = "ByType"
	return f.ids, f.err
}

func (f *fakeZones) Boundaries(context.Context, uint64) ([]geo.Point, error) {
	f.lastCall = "Boundaries"
	return nil, f.err
}

type fakeRoutes struct {
	err      error
	page     *domain.LogPage
	logs     []domain.RouteLog
	record   *domain.RouteLog
	ids      []uint64
	count    uint64
	drones   *domain.AuthorizedDrones
	zones    []domain.ZoneType
	lastCall string
}

func (f *fakeRoutes) Log(context.Context, domain.LogRouteRequest) (*domain.LogRouteResult, error) {
	f.lastCall = "Log"
	return &domain.LogRouteResult{LogID: 9, TxHash: "0xlog"}, f.err
}

func (f *fakeRoutes) Get(context.Context, uint64) (*domain.RouteLog, error) {
	f.lastCall = "Get"
	return f.record, f.err
}

func (f *fakeRoutes) GetMany(context.Context, []uint64) []domain.RouteLog {
	return f.logs
}

func (f *fakeRoutes) Count(context.Context) (uint64, error) {
	f.lastCall = "Count"
	return f.count, f.err
}

func (f *fakeRoutes) OfDrone(context.Context, uint64) ([]uint64, error) {
	f.lastCall = "OfDrone"
	return f.ids, f.err
}

func (f *fakeRoutes) OfDronePaginated(context.Context, uint64, uint64, uint64) (*domain.LogPage, error) {
	f.lastCall = "OfDronePaginated"
	return f.page, f.err
}

func (f *fakeRoutes) AuthorizedByUTM(context.Context, string) (*domain.AuthorizedDrones, error) {
	f.lastCall = "AuthorizedByUTM"
	return f.drones, f.err
}

func (f *fakeRoutes) AuthorizedByUTMSafe(context.Context, string, uint64) (*domain.AuthorizedDrones, error) {
	f.lastCall = "AuthorizedByUTMSafe"
	return f.drones, f.err
}

func (f *fakeRoutes) ZonesOfLog(context.Context, uint64) ([]domain.ZoneType, error) {
	f.lastCall = "ZonesOfLog"
	return f.zones, f.err
}

func (f *fakeRoutes) Recent(context.Context, uint64, uint64) (*domain.LogPage, error) {
	f.lastCall = "Recent"
	return f.page, f.err
}

type fakePermissions struct {
	verdict *domain.Authorization
	err     error
}

func (f *fakePermissions) Check(context.Context, domain.AuthorizationRequest) (*domain.Authorization, error) {
	return f.verdict, f.err
}

func (f *fakePermissions) Request(context.Context, domain.AuthorizationRequest) (*domain.RequestedAuthorization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RequestedAuthorization{Response: *f.verdict, TxHash: "0xreq"}, nil
}

type testEnv struct {
	server      *httptest.Server
	zones       *fakeZones
	routes      *fakeRoutes
	permissions *fakePermissions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		zones: &fakeZones{
			created: &domain.CreateZoneResult{ZoneID: 7, TxHash: "0xzone"},
			total:   3,
		},
		routes: &fakeRoutes{
			page:   &domain.LogPage{LogIDs: []uint64{2, 1}, Total: 3, Limit: 2, HasMore: true},
			logs:   []domain.RouteLog{{LogID: 2}, {LogID: 1}},
			record: &domain.RouteLog{LogID: 2, DroneID: 5},
			ids:    []uint64{2, 1},
			drones: &domain.AuthorizedDrones{DroneIDs: []uint64{5}, UTM: "0x1"},
			zones:  []domain.ZoneType{domain.ZoneRural},
			count:  3,
		},
		permissions: &fakePermissions{
			verdict: &domain.Authorization{DroneID: 5, PreauthorizationStatus: "APPROVED"},
		},
	}
	srv := New(Config{
		Logger:            zerolog.Nop(),
		Chain:             &fakeChain{block: 42},
		ContractAddresses: map[string]string{"zones": "0x1"},
		Zones:             env.zones,
		Routes:            env.routes,
		Permissions:       env.permissions,
	})
	env.server = httptest.NewServer(srv.Handler())
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, envelope
}

// =============================================================================
// Meta endpoints
// =============================================================================

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !envelope.Success {
		t.Error("success = false, want true")
	}
	data, ok := envelope.Data.(map[string]interface{})
	if !ok || data["status"] != "ok" {
		t.Errorf("data = %v, want status ok", envelope.Data)
	}
}

func TestChainStatus(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodGet, "/api/blockchain/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data := envelope.Data.(map[string]interface{})
	if data["blockNumber"] != float64(42) {
		t.Errorf("blockNumber = %v, want 42", data["blockNumber"])
	}
	if data["chainId"] != "1337" {
		t.Errorf("chainId = %v, want 1337", data["chainId"])
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodGet, "/api/nonsense", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if envelope.Success {
		t.Error("success = true, want false")
	}
	if envelope.Error == "" {
		t.Error("error message is empty")
	}
}

// =============================================================================
// Zones
// =============================================================================

func TestCreateZone(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodPost, "/api/zones", domain.CreateZoneRequest{
		Name:     "hospital corridor",
		ZoneType: domain.ZoneHospitals,
		Boundaries: []geo.Point{
			{Latitude: 46.06, Longitude: 11.12},
			{Latitude: 46.07, Longitude: 11.12},
			{Latitude: 46.07, Longitude: 11.13},
		},
		MaxAltitude: 120,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if envelope.Message != "zone created" {
		t.Errorf("message = %q, want %q", envelope.Message, "zone created")
	}
	data := envelope.Data.(map[string]interface{})
	if data["zoneId"] != float64(7) {
		t.Errorf("zoneId = %v, want 7", data["zoneId"])
	}
}

func TestCreateZoneValidationMapsTo400(t *testing.T) {
	env := newTestEnv(t)
	env.zones.err = domain.Validationf("at least 3 boundary points are required")
	resp, envelope := env.do(t, http.MethodPost, "/api/zones", domain.CreateZoneRequest{Name: "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Success || envelope.Error == "" {
		t.Errorf("envelope = %+v, want failure with error", envelope)
	}
}

func TestCreateZoneUpstreamMapsTo500(t *testing.T) {
	env := newTestEnv(t)
	env.zones.err = errors.New("execution reverted")
	resp, _ := env.do(t, http.MethodPost, "/api/zones", domain.CreateZoneRequest{Name: "x"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestCreateZoneMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/zones", bytes.NewReader([]byte("{not json")))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListZonesCount(t *testing.T) {
	env := newTestEnv(t)
	env.zones.zones = []domain.Zone{{ID: 1}, {ID: 2}}
	resp, envelope := env.do(t, http.MethodGet, "/api/zones", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if envelope.Count == nil || *envelope.Count != 2 {
		t.Errorf("count = %v, want 2", envelope.Count)
	}
}

func TestZoneStatsRouteBeatsIDRoute(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodGet, "/api/zones/stats/total", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.zones.lastCall != "Total" {
		t.Errorf("lastCall = %q, want Total", env.zones.lastCall)
	}
	data := envelope.Data.(map[string]interface{})
	if data["total"] != float64(3) {
		t.Errorf("total = %v, want 3", data["total"])
	}
}

func TestZoneNonNumericIDIs404(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/zones/abc", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestZonesByInvalidTypeIs400(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodGet, "/api/zones/type/OCEANIC", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error == "" {
		t.Error("error message is empty")
	}
}

func TestZonesByTypeActiveFlag(t *testing.T) {
	env := newTestEnv(t)
	env.zones.ids = []uint64{1, 2}

	resp, _ := env.do(t, http.MethodGet, "/api/zones/type/URBAN?active=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("active=true status = %d, want 200", resp.StatusCode)
	}
	if env.zones.lastCall != "ByType" {
		t.Errorf("lastCall = %q, want ByType", env.zones.lastCall)
	}

	// Only the exact literals are accepted; ParseBool shorthand is not.
	for _, raw := range []string{"1", "t", "TRUE", "yes"} {
		resp, envelope := env.do(t, http.MethodGet, "/api/zones/type/URBAN?active="+raw, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("active=%s status = %d, want 400", raw, resp.StatusCode)
		}
		if envelope.Success {
			t.Errorf("active=%s: success = true, want false", raw)
		}
	}
}

func TestSetZoneStatusRequiresIsActive(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodPut, "/api/zones/1/status", map[string]interface{}{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error != "isActive is required" {
		t.Errorf("error = %q, want isActive is required", envelope.Error)
	}
}

// =============================================================================
// Route logs
// =============================================================================

func TestLogRoute(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodPost, "/api/routes", domain.LogRouteRequest{DroneID: 5})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	data := envelope.Data.(map[string]interface{})
	if data["logId"] != float64(9) {
		t.Errorf("logId = %v, want 9", data["logId"])
	}
}

func TestAllRouteLogsPage(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodGet, "/api/routes/all?offset=0&limit=2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.routes.lastCall != "Recent" {
		t.Errorf("lastCall = %q, want Recent", env.routes.lastCall)
	}
	data := envelope.Data.(map[string]interface{})
	if data["hasMore"] != true {
		t.Errorf("hasMore = %v, want true", data["hasMore"])
	}
	if envelope.Count == nil || *envelope.Count != 2 {
		t.Errorf("count = %v, want 2", envelope.Count)
	}
}

func TestPaginatedRouteBeatsDroneRoute(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/routes/drone/5/paginated?offset=0&limit=2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.routes.lastCall != "OfDronePaginated" {
		t.Errorf("lastCall = %q, want OfDronePaginated", env.routes.lastCall)
	}
}

func TestRouteZonesBeatsIDRoute(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/routes/2/zones", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.routes.lastCall != "ZonesOfLog" {
		t.Errorf("lastCall = %q, want ZonesOfLog", env.routes.lastCall)
	}
}

func TestUTMSafeRouteBeatsDronesRoute(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/routes/utm/0x1/drones/safe?maxResults=5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.routes.lastCall != "AuthorizedByUTMSafe" {
		t.Errorf("lastCall = %q, want AuthorizedByUTMSafe", env.routes.lastCall)
	}
}

func TestBadQueryParamIs400(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/routes/all?limit=banana", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

// =============================================================================
// Permissions
// =============================================================================

func TestCheckPermission(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodPost, "/api/permissions/check", domain.AuthorizationRequest{
		DroneID: 5,
		Zones:   []domain.ZoneType{domain.ZoneRural},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data := envelope.Data.(map[string]interface{})
	if data["preauthorizationStatus"] != "APPROVED" {
		t.Errorf("preauthorizationStatus = %v, want APPROVED", data["preauthorizationStatus"])
	}
}

func TestRequestPermission(t *testing.T) {
	env := newTestEnv(t)
	resp, envelope := env.do(t, http.MethodPost, "/api/permissions/request", domain.AuthorizationRequest{
		DroneID: 5,
		Zones:   []domain.ZoneType{domain.ZoneRural},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	data := envelope.Data.(map[string]interface{})
	if data["txHash"] != "0xreq" {
		t.Errorf("txHash = %v, want 0xreq", data["txHash"])
	}
}
