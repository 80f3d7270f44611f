package v1

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string `json:"status"`
}

// SoftwareListResponse lists the software names known to the service
type SoftwareListResponse struct {
	Software []string `json:"software"`
}

// SoftwareVersionResponse is the latest version of a single software.
// Version is null when no release qualified.
type SoftwareVersionResponse struct {
	SoftwareName string  `json:"software_name"`
	Version      *string `json:"version"`
}
