package h2

import (
	"sync"
)

// HeaderField is one name/value pair of an HPACK header block, either
// resolved from a table lookup or decoded as a literal (RFC 7541 §5.2).
//
// Use AcquireHeaderField to acquire a HeaderField and ReleaseHeaderField
// to return it to the pool.
type HeaderField struct {
	key, value []byte

	// sensitive marks a field that must always be encoded as "literal
	// never indexed" (RFC 7541 §6.2.3) and never added to the dynamic
	// table, whether the peer's representation asked for that
	// explicitly or HPACK.accountHeader classified the value as a
	// credential.
	sensitive bool
}

var headerFieldPool = sync.Pool{
	New: func() interface{} {
		return &HeaderField{}
	},
}

// AcquireHeaderField returns a zeroed HeaderField from the pool.
func AcquireHeaderField() *HeaderField {
	return headerFieldPool.Get().(*HeaderField)
}

// ReleaseHeaderField resets hf and returns it to the pool.
func ReleaseHeaderField(hf *HeaderField) {
	hf.Reset()
	headerFieldPool.Put(hf)
}

// Empty reports whether hf carries neither a key nor a value.
func (hf *HeaderField) Empty() bool {
	return len(hf.key) == 0 && len(hf.value) == 0
}

// Reset clears hf for reuse.
func (hf *HeaderField) Reset() {
	hf.key = hf.key[:0]
	hf.value = hf.value[:0]
	hf.sensitive = false
}

// String renders hf as "key: value", mainly for debugging and logging.
func (hf *HeaderField) String() string {
	return string(hf.AppendBytes(nil))
}

// AppendBytes appends the "key: value" representation of hf to dst.
func (hf *HeaderField) AppendBytes(dst []byte) []byte {
	dst = append(dst, hf.key...)
	dst = append(dst, ':', ' ')
	dst = append(dst, hf.value...)
	return dst
}

// Size is the RFC 7541 §4.1 entry size used for dynamic table
// accounting: name and value lengths plus a fixed 32-byte overhead.
func (hf *HeaderField) Size() int {
	return len(hf.key) + len(hf.value) + 32
}

// CopyTo copies hf's key, value and sensitivity into other, reusing
// other's existing backing arrays where it can.
func (hf *HeaderField) CopyTo(other *HeaderField) {
	other.key = append(other.key[:0], hf.key...)
	other.value = append(other.value[:0], hf.value...)
	other.sensitive = hf.sensitive
}

// Set assigns key and value from strings.
func (hf *HeaderField) Set(key, value string) {
	hf.SetKey(key)
	hf.SetValue(value)
}

// SetBytes assigns key and value from byte slices.
func (hf *HeaderField) SetBytes(key, value []byte) {
	hf.SetKeyBytes(key)
	hf.SetValueBytes(value)
}

// Key returns the field name.
func (hf *HeaderField) Key() string { return string(hf.key) }

// Value returns the field value.
func (hf *HeaderField) Value() string { return string(hf.value) }

// KeyBytes returns the field name's backing bytes. The slice is only
// valid until the next Reset or Set* call on hf.
func (hf *HeaderField) KeyBytes() []byte { return hf.key }

// ValueBytes returns the field value's backing bytes. The slice is only
// valid until the next Reset or Set* call on hf.
func (hf *HeaderField) ValueBytes() []byte { return hf.value }

// SetKey assigns the field name from a string.
func (hf *HeaderField) SetKey(key string) {
	hf.key = append(hf.key[:0], key...)
}

// SetValue assigns the field value from a string.
func (hf *HeaderField) SetValue(value string) {
	hf.value = append(hf.value[:0], value...)
}

// SetKeyBytes assigns the field name from a byte slice.
func (hf *HeaderField) SetKeyBytes(key []byte) {
	hf.key = append(hf.key[:0], key...)
}

// SetValueBytes assigns the field value from a byte slice.
func (hf *HeaderField) SetValueBytes(value []byte) {
	hf.value = append(hf.value[:0], value...)
}

// IsPseudo reports whether the field name starts with ':', i.e. it is
// one of the HTTP/2 pseudo-headers (RFC 7540 §8.1.2.1) rather than a
// regular HTTP header.
func (hf *HeaderField) IsPseudo() bool {
	return len(hf.key) > 0 && hf.key[0] == ':'
}

// IsSensitive reports whether hf has been marked sensitive, forcing
// literal-never-indexed encoding.
func (hf *HeaderField) IsSensitive() bool {
	return hf.sensitive
}

// SetSensitive marks hf as sensitive (or clears the mark), for callers
// building headers by hand rather than decoding them off the wire.
func (hf *HeaderField) SetSensitive(sensitive bool) {
	hf.sensitive = sensitive
}
