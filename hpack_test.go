package h2

import (
	"bytes"
	"testing"
)

func TestWriteInt(t *testing.T) {
	dst := writeInt(nil, 5, 10)
	if !bytes.Equal(dst, []byte{10}) {
		t.Fatalf("got %v", dst)
	}

	dst = writeInt(nil, 5, 1337)
	if !bytes.Equal(dst, []byte{31, 154, 10}) {
		t.Fatalf("got %v", dst)
	}

	dst = writeInt(nil, 7, 122)
	if !bytes.Equal(dst, []byte{122}) {
		t.Fatalf("got %v", dst)
	}
}

func TestReadInt(t *testing.T) {
	hp := AcquireHPACK()
	defer ReleaseHPACK(hp)

	b := []byte{10}
	_, n, err := hp.readInt(5, b)
	if err != nil || n != 10 {
		t.Fatalf("got %d, %v", n, err)
	}

	b = []byte{31, 154, 10}
	_, n, err = hp.readInt(5, b)
	if err != nil || n != 1337 {
		t.Fatalf("got %d, %v", n, err)
	}

	b = []byte{122}
	_, n, err = hp.readInt(7, b)
	if err != nil || n != 122 {
		t.Fatalf("got %d, %v", n, err)
	}
}

func TestHPACKRoundtripDisableCompression(t *testing.T) {
	hp := AcquireHPACK()
	hp.DisableCompression = true
	defer ReleaseHPACK(hp)

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	hf.SetBytes([]byte(":status"), []byte("302"))
	dst := hp.AppendHeader(nil, hf, true)

	hf.SetBytes([]byte("cache-control"), []byte("private"))
	dst = hp.AppendHeader(dst, hf, true)

	dec := AcquireHPACK()
	dec.DisableCompression = true
	defer ReleaseHPACK(dec)

	out := AcquireHeaderField()
	defer ReleaseHeaderField(out)

	rest, err := dec.Next(out, dst)
	if err != nil {
		t.Fatal(err)
	}
	if out.Key() != ":status" || out.Value() != "302" {
		t.Fatalf("got %s=%s", out.Key(), out.Value())
	}

	_, err = dec.Next(out, rest)
	if err != nil {
		t.Fatal(err)
	}
	if out.Key() != "cache-control" || out.Value() != "private" {
		t.Fatalf("got %s=%s", out.Key(), out.Value())
	}
}

func TestHPACKRoundtripHuffman(t *testing.T) {
	hp := AcquireHPACK()
	defer ReleaseHPACK(hp)

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)
	hf.SetBytes([]byte("location"), []byte("https://www.example.com"))

	dst := hp.AppendHeader(nil, hf, true)

	dec := AcquireHPACK()
	defer ReleaseHPACK(dec)

	out := AcquireHeaderField()
	defer ReleaseHeaderField(out)

	_, err := dec.Next(out, dst)
	if err != nil {
		t.Fatal(err)
	}
	if out.Key() != "location" || out.Value() != "https://www.example.com" {
		t.Fatalf("got %s=%s", out.Key(), out.Value())
	}
}

func TestHPACKStaticIndexed(t *testing.T) {
	hp := AcquireHPACK()
	defer ReleaseHPACK(hp)

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)
	hf.SetBytes([]byte(":method"), []byte("GET"))

	dst := hp.AppendHeader(nil, hf, false)
	if len(dst) != 1 || dst[0]&0x80 == 0 {
		t.Fatalf("expected a single fully-indexed byte, got %v", dst)
	}

	out := AcquireHeaderField()
	defer ReleaseHeaderField(out)
	if _, err := hp.Next(out, dst); err != nil {
		t.Fatal(err)
	}
	if out.Key() != ":method" || out.Value() != "GET" {
		t.Fatalf("got %s=%s", out.Key(), out.Value())
	}
}

func TestHPACKDynamicTableEviction(t *testing.T) {
	hp := AcquireHPACK()
	defer ReleaseHPACK(hp)
	hp.SetMaxTableSize(64)

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	hf.SetBytes([]byte("x-custom-one"), []byte("aaaaaaaaaaaaaaaaaaaa"))
	hp.insert(hf)

	hf.SetBytes([]byte("x-custom-two"), []byte("bbbbbbbbbbbbbbbbbbbb"))
	hp.insert(hf)

	if hp.size > 64 {
		t.Fatalf("dynamic table exceeded max size: %d", hp.size)
	}
	if len(hp.dynamic) != 1 {
		t.Fatalf("expected eviction to leave one entry, got %d", len(hp.dynamic))
	}
}

func TestHPACKSensitiveNeverIndexed(t *testing.T) {
	hp := AcquireHPACK()
	defer ReleaseHPACK(hp)

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)
	hf.SetBytes([]byte("authorization"), []byte("secret-token"))

	dst := hp.AppendHeader(nil, hf, true)
	if len(hp.dynamic) != 0 {
		t.Fatalf("sensitive header must not enter the dynamic table")
	}
	if dst[0]&0xf0 != 0x10 {
		t.Fatalf("expected literal-never-indexed prefix, got %#x", dst[0])
	}
}

func TestHPACKHeaderListSizeLimit(t *testing.T) {
	hp := AcquireHPACK()
	defer ReleaseHPACK(hp)
	hp.MaxHeaderListSize = 40
	hp.StartHeaderBlock()

	enc := AcquireHPACK()
	defer ReleaseHPACK(enc)
	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)
	hf.SetBytes([]byte("x-long-header-name"), []byte("a-reasonably-long-value-here"))
	dst := enc.AppendHeader(nil, hf, false)

	out := AcquireHeaderField()
	defer ReleaseHeaderField(out)
	if _, err := hp.Next(out, dst); err == nil {
		t.Fatalf("expected header list size limit to trigger")
	}
}
