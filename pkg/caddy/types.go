package caddy

// DefaultCAID is the id of Caddy's default certificate authority.
const DefaultCAID = "local"

// CA describes a PKI certificate authority (GET /pki/ca/{id}).
// Certificates are PEM-encoded.
type CA struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	RootCommonName          string `json:"root_common_name"`
	IntermediateCommonName  string `json:"intermediate_common_name"`
	RootCertificate         string `json:"root_certificate"`
	IntermediateCertificate string `json:"intermediate_certificate"`
}

// Upstream is one reverse proxy upstream's current state
// (GET /reverse_proxy/upstreams).
type Upstream struct {
	Address     string `json:"address"`
	NumRequests int    `json:"num_requests"`
	Fails       int    `json:"fails"`
}

// errorBody is the shape Caddy uses for error responses.
type errorBody struct {
	Error string `json:"error"`
}
