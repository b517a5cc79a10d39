package requester

// RouteConfig holds the configuration for a specific route
type RouteConfig struct {
	// Path is appended to the endpoint base URL unless it is already an absolute URL.
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Description string            `json:"description,omitempty"`
	Headers     map[string]string `json:"headers"`
}
