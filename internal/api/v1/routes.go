// Package v1 provides the v1 REST endpoints of the release version API.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/release-version-api/internal/api/common"
	"github.com/stacklok/release-version-api/internal/service"
)

const (
	// FormatDiscovery selects the low-level discovery payload on GET /software
	FormatDiscovery = "discovery"

	aggregationFailedMessage = "Failed to determine the most recent versions"
)

// Routes handles HTTP requests for the v1 endpoints
type Routes struct {
	service service.Service
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc service.Service) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates the router for the v1 endpoints
func Router(svc service.Service) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/most_recent", routes.mostRecent)
	r.Get("/software", routes.listSoftware)
	r.Get("/software/{softwareName}", routes.getSoftware)

	return r
}

// mostRecent handles GET /v1/most_recent.
// Every registered software is present in the response, null when nothing qualified.
func (routes *Routes) mostRecent(w http.ResponseWriter, r *http.Request) {
	result, err := routes.service.MostRecent(r.Context())
	if err != nil {
		slog.Error("Failed to aggregate release versions", "error", err)
		common.WriteErrorResponse(w, aggregationFailedMessage, http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, result, http.StatusOK)
}

// listSoftware handles GET /v1/software.
// With ?format=discovery the names are returned as a low-level discovery document.
func (routes *Routes) listSoftware(w http.ResponseWriter, r *http.Request) {
	names := routes.service.SoftwareNames()

	switch format := r.URL.Query().Get("format"); format {
	case "":
		common.WriteJSONResponse(w, SoftwareListResponse{Software: names}, http.StatusOK)
	case FormatDiscovery:
		common.WriteJSONResponse(w, service.NewDiscoveryDocument(names), http.StatusOK)
	default:
		common.WriteErrorResponse(w, "Unsupported format: "+format, http.StatusBadRequest)
	}
}

// getSoftware handles GET /v1/software/{softwareName}
func (routes *Routes) getSoftware(w http.ResponseWriter, r *http.Request) {
	name, err := common.GetAndValidateURLParam(r, "softwareName")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	version, err := routes.service.MostRecentFor(r.Context(), name)
	if errors.Is(err, service.ErrSoftwareNotFound) {
		common.WriteErrorResponse(w, "Software not found: "+name, http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to extract release version", "software", name, "error", err)
		common.WriteErrorResponse(w, "Failed to determine the most recent version of "+name,
			http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, SoftwareVersionResponse{
		SoftwareName: name,
		Version:      version,
	}, http.StatusOK)
}
