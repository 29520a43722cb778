package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"network-summary/internal/analysis"
	"network-summary/internal/api/middleware"
	"network-summary/internal/api/models"
	"network-summary/internal/config"
	"network-summary/internal/data"
	"network-summary/internal/loader"
	"network-summary/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NetworkHandler serves summaries of the network folders under one directory.
type NetworkHandler struct {
	networkDir string
	techCosts  string
	cfg        *config.Config
	logger     *zap.Logger
}

// NewNetworkHandler creates a handler over dir. With techCosts set, networks
// go through the full loader including transmission costs; otherwise they are
// only annotated.
func NewNetworkHandler(dir, techCosts string, cfg *config.Config, logger *zap.Logger) *NetworkHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("network handler ready", zap.String("network_dir", dir), zap.Bool("tech_costs", techCosts != ""))
	return &NetworkHandler{networkDir: dir, techCosts: techCosts, cfg: cfg, logger: logger}
}

// NetworkDir returns the directory networks are served from.
func (h *NetworkHandler) NetworkDir() string {
	return h.networkDir
}

// ListNetworks handles GET /api/v1/networks
func (h *NetworkHandler) ListNetworks(c *gin.Context) {
	networks := []models.NetworkInfo{}

	entries, err := os.ReadDir(h.networkDir)
	if err != nil {
		h.logger.Warn("read network dir", zap.String("dir", h.networkDir), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"networks": networks})
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(h.networkDir, e.Name())
		n, err := data.LoadNetwork(path)
		if err != nil {
			h.logger.Debug("skipping folder", zap.String("path", path), zap.Error(err))
			continue
		}
		networks = append(networks, models.NetworkInfo{
			ID:        e.Name(),
			Path:      path,
			Snapshots: len(n.Snapshots),
			Buses:     len(n.Buses),
		})
	}

	c.JSON(http.StatusOK, gin.H{"networks": networks})
}

// GetSummary handles GET /api/v1/networks/:id/summary
func (h *NetworkHandler) GetSummary(c *gin.Context) {
	var q models.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	kinds := analysis.AggregatorKinds()
	if q.Kind != "" {
		if _, ok := analysis.Aggregators[q.Kind]; !ok {
			badRequest(c, "INVALID_KIND", "kind must be one of "+strings.Join(kinds, ", "))
			return
		}
		kinds = []string{q.Kind}
	}

	n, ok := h.network(c)
	if !ok {
		return
	}

	resp := models.SummaryResponse{
		RunID:      middleware.RunID(c),
		Network:    c.Param("id"),
		Aggregates: make(map[string][]models.CarrierValue, len(kinds)),
	}
	for _, k := range kinds {
		resp.Aggregates[k] = carrierValues(analysis.Aggregators[k](n))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCosts handles GET /api/v1/networks/:id/costs
func (h *NetworkHandler) GetCosts(c *gin.Context) {
	var q models.CostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	n, ok := h.network(c)
	if !ok {
		return
	}

	costs, err := analysis.AggregateCosts(n, analysis.CostOptions{
		Flatten:      q.Flatten,
		Plotting:     &h.cfg.Plotting,
		ExistingOnly: q.ExistingOnly,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "AGGREGATION_ERROR", Message: err.Error()},
		})
		return
	}

	resp := models.CostsResponse{RunID: middleware.RunID(c), Network: c.Param("id")}
	if costs.Flat != nil {
		resp.Flat = carrierValues(*costs.Flat)
	} else {
		for _, k := range costs.Keys {
			resp.Costs = append(resp.Costs, models.CostSeries{
				Component: k.Component,
				Kind:      string(k.Kind),
				Carriers:  carrierValues(costs.Series[k]),
			})
		}
	}
	c.JSON(http.StatusOK, resp)
}

// network loads the network named by the :id path parameter, writing the
// error response itself when that fails.
func (h *NetworkHandler) network(c *gin.Context) (*model.Network, bool) {
	id := c.Param("id")
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		badRequest(c, "INVALID_NETWORK_ID", "invalid network id")
		return nil, false
	}
	path := filepath.Join(h.networkDir, id)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NETWORK_NOT_FOUND",
				Message: "network not found",
				Details: map[string]interface{}{"id": id},
			},
		})
		return nil, false
	}

	var (
		n   *model.Network
		err error
	)
	if h.techCosts != "" {
		n, err = loader.Load(path, h.techCosts, h.cfg, loader.Options{CombineHydroPS: true, Logger: h.logger})
	} else {
		n, err = data.LoadNetwork(path)
		if err == nil {
			loader.Annotate(n, true)
		}
	}
	if err == nil {
		return n, true
	}

	h.logger.Error("load network", zap.String("id", id), zap.Error(err))
	c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INVALID_NETWORK", Message: err.Error()},
	})
	return nil, false
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: msg},
	})
}

func carrierValues(s analysis.Series) []models.CarrierValue {
	out := make([]models.CarrierValue, 0, s.Len())
	for i, l := range s.Index {
		out = append(out, models.CarrierValue{Carrier: l, Value: s.Values[i]})
	}
	return out
}
