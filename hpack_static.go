package h2

// staticTable is the fixed 61-entry table of RFC 7541 Appendix A. Index
// 0 here corresponds to HPACK index 1; HPACK.lookup and HPACK.findIndex
// translate to and from the unified address space.
var staticTable = [61]HeaderField{
	{key: []byte(":authority")},
	{key: []byte(":method"), value: []byte("GET")},
	{key: []byte(":method"), value: []byte("POST")},
	{key: []byte(":path"), value: []byte("/")},
	{key: []byte(":path"), value: []byte("/index.html")},
	{key: []byte(":scheme"), value: []byte("http")},
	{key: []byte(":scheme"), value: []byte("https")},
	{key: []byte(":status"), value: []byte("200")},
	{key: []byte(":status"), value: []byte("204")},
	{key: []byte(":status"), value: []byte("206")},
	{key: []byte(":status"), value: []byte("304")},
	{key: []byte(":status"), value: []byte("400")},
	{key: []byte(":status"), value: []byte("404")},
	{key: []byte(":status"), value: []byte("500")},
	{key: []byte("accept-charset")},
	{key: []byte("accept-encoding"), value: []byte("gzip, deflate")},
	{key: []byte("accept-language")},
	{key: []byte("accept-ranges")},
	{key: []byte("accept")},
	{key: []byte("access-control-allow-origin")},
	{key: []byte("age")},
	{key: []byte("allow")},
	{key: []byte("authorization")},
	{key: []byte("cache-control")},
	{key: []byte("content-disposition")},
	{key: []byte("content-encoding")},
	{key: []byte("content-language")},
	{key: []byte("content-length")},
	{key: []byte("content-location")},
	{key: []byte("content-range")},
	{key: []byte("content-type")},
	{key: []byte("cookie")},
	{key: []byte("date")},
	{key: []byte("etag")},
	{key: []byte("expect")},
	{key: []byte("expires")},
	{key: []byte("from")},
	{key: []byte("host")},
	{key: []byte("if-match")},
	{key: []byte("if-modified-since")},
	{key: []byte("if-none-match")},
	{key: []byte("if-range")},
	{key: []byte("if-unmodified-since")},
	{key: []byte("last-modified")},
	{key: []byte("link")},
	{key: []byte("location")},
	{key: []byte("max-forwards")},
	{key: []byte("proxy-authenticate")},
	{key: []byte("proxy-authorization")},
	{key: []byte("range")},
	{key: []byte("referer")},
	{key: []byte("refresh")},
	{key: []byte("retry-after")},
	{key: []byte("server")},
	{key: []byte("set-cookie")},
	{key: []byte("strict-transport-security")},
	{key: []byte("transfer-encoding")},
	{key: []byte("user-agent")},
	{key: []byte("vary")},
	{key: []byte("via")},
	{key: []byte("www-authenticate")},
}

// staticNameValueIndex and staticNameIndex let findIndex resolve the
// static table in O(1) instead of scanning staticTable on every
// AppendHeader call (spec.md §4.2), mirroring the byName/byNameValue
// maps golang.org/x/net/http2/hpack's encoder keeps over its own
// table. staticNameIndex keeps the lowest index for a repeated name
// (e.g. ":status") since that's what the old first-match linear scan
// returned.
var (
	staticNameValueIndex = make(map[string]uint64, len(staticTable))
	staticNameIndex      = make(map[string]uint64, len(staticTable))
)

func init() {
	for i, e := range staticTable {
		idx := uint64(i + 1)
		nv := string(e.key) + "\x00" + string(e.value)
		if _, ok := staticNameValueIndex[nv]; !ok {
			staticNameValueIndex[nv] = idx
		}
		if _, ok := staticNameIndex[string(e.key)]; !ok {
			staticNameIndex[string(e.key)] = idx
		}
	}
}
