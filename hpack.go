package h2

import (
	"sync"

	"golang.org/x/net/http/httpguts"
)

// HPACK implements the RFC 7541 header compression context for one
// direction of one connection: a static table (shared, read-only) plus
// a private dynamic table, an encoder and a decoder side.
//
// Use AcquireHPACK to acquire an HPACK and ReleaseHPACK to return it.
type HPACK struct {
	dynamic []HeaderField // oldest entry at index 0
	dynIDs  []uint64      // dynamic[i]'s monotonic insertion id, parallel to dynamic
	nextID  uint64        // insertion id to assign to the next entry

	// dynByNameValue/dynByName mirror dynamic for O(1) findIndex lookups
	// (spec.md §4.2), keyed by the same monotonic id dynIDs records so
	// evict can tell a stale map entry (superseded by a newer insert of
	// the same name/value) from the one it should actually delete.
	dynByNameValue map[string]uint64
	dynByName      map[string]uint64

	size    int // current dynamic table size, RFC 7541 §4.1
	maxSize int // negotiated via SETTINGS_HEADER_TABLE_SIZE

	// DisableCompression makes AppendHeader use literal-without-indexing
	// where it would otherwise index incrementally, and skips dynamic
	// table insertion, matching a peer's HEADER_TABLE_SIZE=0. Full
	// static-table matches are still sent indexed, and string literals
	// are still Huffman-coded when that is shorter.
	DisableCompression bool

	// Security limits (RFC 7541 §10, absent in the generation this is
	// modeled on — see SPEC_FULL.md's HPACK module notes).
	MaxHeaderListSize int // 0 = unlimited
	MaxStringLen      int // 0 = unlimited; per name/value literal
	MaxHeaderCount    int // 0 = unlimited; per header block

	// SensitiveValueLen forces literal-never-indexed encoding for any
	// value at or above this length, in addition to the fixed
	// authorization/cookie/set-cookie name list.
	SensitiveValueLen int

	headerListSize int
	headerCount    int
}

var hpackPool = sync.Pool{
	New: func() interface{} {
		return &HPACK{}
	},
}

// AcquireHPACK returns an HPACK from the pool with the RFC default
// table size.
func AcquireHPACK() *HPACK {
	hp := hpackPool.Get().(*HPACK)
	hp.Reset()
	return hp
}

// ReleaseHPACK resets hp and returns it to the pool.
func ReleaseHPACK(hp *HPACK) {
	hp.Reset()
	hpackPool.Put(hp)
}

// Reset empties the dynamic table and restores default limits.
func (hp *HPACK) Reset() {
	hp.dynamic = hp.dynamic[:0]
	hp.dynIDs = hp.dynIDs[:0]
	hp.nextID = 0
	if hp.dynByNameValue == nil {
		hp.dynByNameValue = make(map[string]uint64)
		hp.dynByName = make(map[string]uint64)
	} else {
		for k := range hp.dynByNameValue {
			delete(hp.dynByNameValue, k)
		}
		for k := range hp.dynByName {
			delete(hp.dynByName, k)
		}
	}
	hp.size = 0
	hp.maxSize = int(defaultHeaderTableSize)
	hp.DisableCompression = false
	hp.MaxHeaderListSize = int(defaultMaxHeaderListSize)
	hp.MaxStringLen = 0
	hp.MaxHeaderCount = 0
	hp.SensitiveValueLen = 4096
	hp.headerListSize = 0
	hp.headerCount = 0
}

// SetMaxTableSize sets the maximum dynamic table size, evicting entries
// if the new size is smaller than the current one.
func (hp *HPACK) SetMaxTableSize(size int) {
	hp.maxSize = size
	hp.evict()
}

// StartHeaderBlock resets the per-block security counters. Call this
// before decoding the first HEADERS/CONTINUATION fragment of a block.
func (hp *HPACK) StartHeaderBlock() {
	hp.headerListSize = 0
	hp.headerCount = 0
}

func (hp *HPACK) evict() {
	for hp.size > hp.maxSize && len(hp.dynamic) > 0 {
		e := hp.dynamic[0]
		id := hp.dynIDs[0]
		hp.size -= e.Size()
		hp.dynamic = hp.dynamic[1:]
		hp.dynIDs = hp.dynIDs[1:]

		// Only clear a map entry if it still points at the id being
		// evicted — a later insert of the same name/value may already
		// have overwritten it with a fresher, still-live id.
		nv := string(e.key) + "\x00" + string(e.value)
		if hp.dynByNameValue[nv] == id {
			delete(hp.dynByNameValue, nv)
		}
		if hp.dynByName[string(e.key)] == id {
			delete(hp.dynByName, string(e.key))
		}
	}
}

func (hp *HPACK) insert(hf *HeaderField) {
	entry := HeaderField{}
	hf.CopyTo(&entry)

	id := hp.nextID
	hp.nextID++
	hp.dynamic = append(hp.dynamic, entry)
	hp.dynIDs = append(hp.dynIDs, id)
	hp.size += entry.Size()

	nv := string(entry.key) + "\x00" + string(entry.value)
	hp.dynByNameValue[nv] = id
	hp.dynByName[string(entry.key)] = id

	hp.evict()
}

// lookup resolves a 1-based unified index (1..61 static, 62+ dynamic)
// to the entry it names.
func (hp *HPACK) lookup(i uint64) (HeaderField, bool) {
	if i >= 1 && i <= uint64(len(staticTable)) {
		return staticTable[i-1], true
	}

	di := i - uint64(len(staticTable)) - 1
	// dynamic table is addressed newest-first (RFC 7541 §2.3.3)
	n := uint64(len(hp.dynamic))
	if di >= n {
		return HeaderField{}, false
	}
	return hp.dynamic[n-1-di], true
}

// dynIndexOf converts the monotonic insertion id of a still-live
// dynamic table entry into its current newest-first unified index.
// Ids are assigned in strictly increasing order and only ever evicted
// from the front, so the surviving ids are a contiguous run ending at
// nextID-1 and this is an O(1) arithmetic inverse of lookup's di math.
func (hp *HPACK) dynIndexOf(id uint64) uint64 {
	newest := hp.nextID - 1
	return uint64(len(staticTable)) + 1 + (newest - id)
}

// findIndex looks for a full name+value (or name-only) match via the
// hash maps built over the static and dynamic tables, in the same
// preference order the teacher's linear scan used: exact static match,
// then exact dynamic match, then name-only static, then name-only
// dynamic (spec.md §4.2 requires this be O(1) amortized, not a scan).
func (hp *HPACK) findIndex(hf *HeaderField) (idx uint64, nameOnly bool, found bool) {
	key := string(hf.key)
	nv := key + "\x00" + string(hf.value)

	if i, ok := staticNameValueIndex[nv]; ok {
		return i, false, true
	}
	if id, ok := hp.dynByNameValue[nv]; ok {
		return hp.dynIndexOf(id), false, true
	}
	if i, ok := staticNameIndex[key]; ok {
		return i, true, true
	}
	if id, ok := hp.dynByName[key]; ok {
		return hp.dynIndexOf(id), true, true
	}

	return 0, false, false
}

func (hf *HeaderField) isSensitiveName() bool {
	switch string(hf.key) {
	case "authorization", "cookie", "set-cookie":
		return true
	}
	return false
}

// Next decodes one header field representation from b, storing it in
// hf, and returns the remaining bytes.
//
// Next enforces the header-list amplification limits configured on hp
// (MaxHeaderListSize, MaxStringLen, MaxHeaderCount) and validates
// decoded names/values against RFC 7230 token rules via httpguts,
// reporting a CompressionError on violation — bomb protection entirely
// absent from the generation this decoder is modeled on.
func (hp *HPACK) Next(hf *HeaderField, b []byte) ([]byte, error) {
	if len(b) == 0 {
		return b, ErrMissingBytes
	}

	hf.Reset()

	var err error
	c := b[0]

	switch {
	case c&0x80 == 0x80: // indexed header field, RFC 7541 §6.1
		var idx uint64
		b, idx, err = hp.readInt(7, b)
		if err != nil {
			return b, err
		}
		entry, ok := hp.lookup(idx)
		if !ok {
			return b, NewConnError(CompressionError, "indexed header field not found")
		}
		entry.CopyTo(hf)

	case c&0xc0 == 0x40: // literal with incremental indexing, §6.2.1
		var idx uint64
		b, idx, err = hp.readInt(6, b)
		if err != nil {
			return b, err
		}
		b, err = hp.readLiteral(hf, idx, b)
		if err != nil {
			return b, err
		}
		if !hp.DisableCompression {
			hp.insert(hf)
		}

	case c&0xf0 == 0x00: // literal without indexing, §6.2.2
		var idx uint64
		b, idx, err = hp.readInt(4, b)
		if err != nil {
			return b, err
		}
		b, err = hp.readLiteral(hf, idx, b)

	case c&0xf0 == 0x10: // literal never indexed, §6.2.3
		var idx uint64
		b, idx, err = hp.readInt(4, b)
		if err != nil {
			return b, err
		}
		b, err = hp.readLiteral(hf, idx, b)
		hf.sensitive = true

	case c&0xe0 == 0x20: // dynamic table size update, §6.3
		var newSize uint64
		b, newSize, err = hp.readInt(5, b)
		if err != nil {
			return b, err
		}
		if int(newSize) > hp.maxSize {
			return b, NewConnError(CompressionError, "dynamic table size update exceeds negotiated maximum")
		}
		hp.SetMaxTableSize(int(newSize))
		return hp.Next(hf, b)

	default:
		return b, NewConnError(CompressionError, "invalid header field representation")
	}

	if err != nil {
		return b, err
	}

	if err := hp.accountHeader(hf); err != nil {
		return b, err
	}

	if !hf.IsPseudo() {
		if !httpguts.ValidHeaderFieldName(hf.Key()) {
			return b, NewConnError(CompressionError, "invalid header field name")
		}
	}
	if !httpguts.ValidHeaderFieldValue(hf.Value()) {
		return b, NewConnError(CompressionError, "invalid header field value")
	}

	return b, nil
}

func (hp *HPACK) accountHeader(hf *HeaderField) error {
	hp.headerCount++
	if hp.MaxHeaderCount > 0 && hp.headerCount > hp.MaxHeaderCount {
		return NewConnError(CompressionError, "too many header fields")
	}

	hp.headerListSize += hf.Size()
	if hp.MaxHeaderListSize > 0 && hp.headerListSize > hp.MaxHeaderListSize {
		return NewConnError(CompressionError, "header list size exceeds configured maximum")
	}

	if hp.SensitiveValueLen > 0 && len(hf.value) >= hp.SensitiveValueLen {
		hf.sensitive = true
	}
	if hf.isSensitiveName() {
		hf.sensitive = true
	}

	return nil
}

func (hp *HPACK) readLiteral(hf *HeaderField, idx uint64, b []byte) ([]byte, error) {
	var err error

	if idx == 0 {
		hf.key, b, err = hp.readString(hf.key[:0], b)
		if err != nil {
			return b, err
		}
	} else {
		entry, ok := hp.lookup(idx)
		if !ok {
			return b, NewConnError(CompressionError, "literal header field name not found")
		}
		hf.key = append(hf.key[:0], entry.key...)
	}

	hf.value, b, err = hp.readString(hf.value[:0], b)
	return b, err
}

// readString decodes one RFC 7541 §5.2 string literal, appending it to
// dst, and returns the updated slice along with the remaining input.
func (hp *HPACK) readString(dst, b []byte) ([]byte, []byte, error) {
	if len(b) == 0 {
		return dst, b, ErrMissingBytes
	}

	huff := b[0]&0x80 == 0x80
	b, length, err := hp.readInt(7, b)
	if err != nil {
		return dst, b, err
	}

	if hp.MaxStringLen > 0 && int(length) > hp.MaxStringLen {
		return dst, b, NewConnError(CompressionError, "header string literal too long")
	}
	if uint64(len(b)) < length {
		return dst, b, ErrMissingBytes
	}

	raw := b[:length]
	rest := b[length:]

	if huff {
		dst, err = huffmanDecode(dst, raw)
		if err != nil {
			return dst, rest, NewConnError(CompressionError, err.Error())
		}
		if hp.MaxStringLen > 0 && len(dst) > hp.MaxStringLen {
			return dst, rest, NewConnError(CompressionError, "header string literal too long")
		}
	} else {
		dst = append(dst, raw...)
	}

	return dst, rest, nil
}

func (hp *HPACK) readInt(n int, b []byte) ([]byte, uint64, error) {
	if len(b) == 0 {
		return b, 0, ErrMissingBytes
	}

	mask := uint64(1<<uint(n)) - 1
	num := uint64(b[0]) & mask
	if num < mask {
		return b[1:], num, nil
	}

	i := 1
	var m uint
	for i < len(b) {
		c := b[i]
		i++
		num += uint64(c&0x7f) << m
		if num > (1 << 32) {
			return b[i:], 0, ErrBitOverflow
		}
		if c&0x80 != 0x80 {
			return b[i:], num, nil
		}
		m += 7
		if m >= 63 {
			return b[i:], 0, ErrBitOverflow
		}
	}

	return b[i:], 0, ErrMissingBytes
}

func writeInt(dst []byte, n uint, i uint64) []byte {
	mask := uint64(1<<n) - 1
	if i < mask {
		dst = append(dst, byte(i))
		return dst
	}

	dst = append(dst, byte(mask))
	i -= mask
	for i >= 128 {
		dst = append(dst, byte(0x80|(i&0x7f)))
		i >>= 7
	}
	return append(dst, byte(i))
}

// AppendHeader appends the HPACK representation of hf to dst. If store
// is true and hf is not sensitive, the field is also added to the
// dynamic table as a literal-with-incremental-indexing entry. Sensitive
// fields always encode as literal-never-indexed regardless of store. A
// field is sensitive when marked so, when its name is authorization,
// cookie or set-cookie, or when its value is at least SensitiveValueLen
// bytes long.
func (hp *HPACK) AppendHeader(dst []byte, hf *HeaderField, store bool) []byte {
	sensitive := hf.sensitive || hf.isSensitiveName() ||
		(hp.SensitiveValueLen > 0 && len(hf.value) >= hp.SensitiveValueLen)

	idx, nameOnly, found := hp.findIndex(hf)

	if found && !nameOnly && !sensitive {
		return hp.appendIndexed(dst, idx)
	}

	switch {
	case sensitive:
		dst = writeIndexPrefix(dst, 4, 0x10, idxOrZero(found && nameOnly, idx))
		if !(found && nameOnly) {
			dst = hp.writeStringLiteral(dst, hf.key)
		}
		dst = hp.writeStringLiteral(dst, hf.value)

	case store && !hp.DisableCompression:
		dst = writeIndexPrefix(dst, 6, 0x40, idxOrZero(found && nameOnly, idx))
		if !(found && nameOnly) {
			dst = hp.writeStringLiteral(dst, hf.key)
		}
		dst = hp.writeStringLiteral(dst, hf.value)
		hp.insert(hf)

	default:
		dst = writeIndexPrefix(dst, 4, 0x00, idxOrZero(found && nameOnly, idx))
		if !(found && nameOnly) {
			dst = hp.writeStringLiteral(dst, hf.key)
		}
		dst = hp.writeStringLiteral(dst, hf.value)
	}

	return dst
}

func idxOrZero(ok bool, idx uint64) uint64 {
	if ok {
		return idx
	}
	return 0
}

func writeIndexPrefix(dst []byte, n uint, marker byte, idx uint64) []byte {
	nn := len(dst)
	dst = writeInt(dst, n, idx)
	dst[nn] |= marker
	return dst
}

// appendIndexed appends a fully-indexed representation (RFC 7541 §6.1)
// for a name+value pair already present at idx in the unified address
// space.
func (hp *HPACK) appendIndexed(dst []byte, idx uint64) []byte {
	nn := len(dst)
	dst = writeInt(dst, 7, idx)
	dst[nn] |= 0x80
	return dst
}

func (hp *HPACK) writeStringLiteral(dst, src []byte) []byte {
	if hp.MaxStringLen > 0 && len(src) > hp.MaxStringLen {
		src = src[:hp.MaxStringLen]
	}

	encLen := huffmanEncodedLen(src)
	huffLen := (encLen + 7) / 8

	if huffLen < len(src) {
		nn := len(dst)
		dst = writeInt(dst, 7, uint64(huffLen))
		dst[nn] |= 0x80
		dst = huffmanEncode(dst, src)
	} else {
		dst = writeInt(dst, 7, uint64(len(src)))
		dst = append(dst, src...)
	}

	return dst
}
