package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"network-summary/internal/api/handlers"
	"network-summary/internal/api/middleware"
	"network-summary/internal/api/models"
	"network-summary/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func writeNetworks(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"buses.csv":        "name,carrier\nB0,AC\n",
		"snapshots.csv":    "name,objective\nt0,1\nt1,1\n",
		"generators.csv":   "name,bus,carrier,p_nom,p_nom_opt,capital_cost,marginal_cost\nG0,B0,gas,1,2,5,1\n",
		"generators-p.csv": "snapshot,G0\nt0,2\nt1,3\n",
		"loads.csv":        "name,bus\nL0,B0\n",
		"loads-p.csv":      "snapshot,L0\nt0,40\nt1,60\n",
	}
	dir := filepath.Join(root, "elec")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0o755))
	return root
}

func newTestRouter(t *testing.T) *gin.Engine {
	cfg := config.Default()
	cfg.Plotting.ConvTechs = []string{"gas"}
	h := handlers.NewNetworkHandler(writeNetworks(t), "", cfg, zap.NewNop())
	return NewRouter(h, zap.NewNop())
}

func get(t *testing.T, r http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func valuesOf(cv []models.CarrierValue) map[string]float64 {
	out := map[string]float64{}
	for _, v := range cv {
		out[v.Carrier] += v.Value
	}
	return out
}

func TestHealth(t *testing.T) {
	w := get(t, newTestRouter(t), "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RunIDHeader))
}

func TestListNetworks(t *testing.T) {
	var body struct {
		Networks []models.NetworkInfo `json:"networks"`
	}
	w := get(t, newTestRouter(t), "/api/v1/networks", &body)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body.Networks, 1)
	assert.Equal(t, "elec", body.Networks[0].ID)
	assert.Equal(t, 2, body.Networks[0].Snapshots)
}

func TestGetSummary(t *testing.T) {
	var resp models.SummaryResponse
	w := get(t, newTestRouter(t), "/api/v1/networks/elec/summary?kind=p_nom", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "elec", resp.Network)
	assert.Equal(t, w.Header().Get(middleware.RunIDHeader), resp.RunID)
	require.Len(t, resp.Aggregates, 1)
	assert.Equal(t, map[string]float64{"gas": 2, "AC load": 50}, valuesOf(resp.Aggregates["p_nom"]))

	w = get(t, newTestRouter(t), "/api/v1/networks/elec/summary", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Aggregates, 4)
	assert.Equal(t, map[string]float64{"gas": 5, "AC load": -100}, valuesOf(resp.Aggregates["p"]))
}

func TestGetCosts(t *testing.T) {
	var resp models.CostsResponse
	w := get(t, newTestRouter(t), "/api/v1/networks/elec/costs?flatten=true", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Costs)
	assert.Equal(t, map[string]float64{"gas": 10, "gas marginal": 5}, valuesOf(resp.Flat))

	w = get(t, newTestRouter(t), "/api/v1/networks/elec/costs?existing_only=true", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Costs, 10)
	assert.Equal(t, "generators", resp.Costs[2].Component)
	assert.Equal(t, "capital", resp.Costs[2].Kind)
	assert.Equal(t, map[string]float64{"gas": 5}, valuesOf(resp.Costs[2].Carriers))
}

func TestErrors(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		url  string
		code int
		err  string
	}{
		{"/api/v1/networks/missing/summary", http.StatusNotFound, "NETWORK_NOT_FOUND"},
		{"/api/v1/networks/broken/summary", http.StatusUnprocessableEntity, "INVALID_NETWORK"},
		{"/api/v1/networks/elec/summary?kind=volume", http.StatusBadRequest, "INVALID_KIND"},
		{"/api/v1/networks/elec/costs?flatten=maybe", http.StatusBadRequest, "INVALID_REQUEST"},
	}
	for _, tc := range cases {
		var resp models.ErrorResponse
		w := get(t, r, tc.url, &resp)
		assert.Equal(t, tc.code, w.Code, tc.url)
		assert.Equal(t, tc.err, resp.Error.Code, tc.url)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/networks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
