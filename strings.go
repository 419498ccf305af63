package h2

// Shared byte constants for the pseudo-header names and common HTTP
// tokens this package compares against on every request/response,
// avoiding a fresh []byte(...) allocation at each comparison site.
var (
	StringPath          = []byte(":path")
	StringStatus        = []byte(":status")
	StringAuthority     = []byte(":authority")
	StringScheme        = []byte(":scheme")
	StringMethod        = []byte(":method")
	StringServer        = []byte("server")
	StringContentLength = []byte("content-length")
	StringContentType   = []byte("content-type")
	StringUserAgent     = []byte("user-agent")
	StringGET           = []byte("GET")
	StringHEAD          = []byte("HEAD")
	StringPOST          = []byte("POST")
	StringHTTP2         = []byte("HTTP/2")
)

// strUserAgent etc. are the unexported aliases request.go compares
// decoded header values against; kept distinct from the exported
// Strings so callers building requests and the parser reading them
// don't have to agree on which name to import.
var (
	strUserAgent = StringUserAgent
	strGET       = StringGET
	strHEAD      = StringHEAD
	strPOST      = StringPOST
)

// ToLower lowercases b in place (HTTP/2 header names are always
// lowercase on the wire, RFC 7540 §8.1.2) and returns it.
func ToLower(b []byte) []byte {
	for i := range b {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}

	return b
}

const (
	// H2TLSProto is the string used in ALPN-TLS negotiation.
	H2TLSProto = "h2"
	// H2Clean is the string used in HTTP headers by the client to upgrade the connection.
	H2Clean = "h2c"
)
