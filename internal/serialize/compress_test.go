package serialize

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	c, err := NewCompressor()
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	d, err := NewDecompressor(0)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	data := bytes.Repeat([]byte("family_name_regex_filter:cf "), 200)

	compressed := c.Compress(data)
	if len(compressed) >= len(data) {
		t.Errorf("expected compression to shrink repetitive data: %d >= %d", len(compressed), len(data))
	}

	got, err := d.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("round trip changed the data")
	}
}

func TestCompressEmpty(t *testing.T) {
	c, err := NewCompressor()
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	if out := c.Compress(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}

	d, err := NewDecompressor(0)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	out, err := d.Decompress(nil)
	if err != nil || len(out) != 0 {
		t.Errorf("expected empty output and no error, got %d bytes, %v", len(out), err)
	}
}

func TestDecompressLimit(t *testing.T) {
	c, err := NewCompressor()
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	d, err := NewDecompressor(4096)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	compressed := c.Compress(bytes.Repeat([]byte{'a'}, 64*1024))

	if _, err := d.Decompress(compressed); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestDecompressGarbage(t *testing.T) {
	d, err := NewDecompressor(0)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	if _, err := d.Decompress([]byte("not zstd at all")); err == nil {
		t.Error("expected error for non-zstd input")
	}
}

func TestCompressConcurrent(t *testing.T) {
	c, err := NewCompressor()
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	d, err := NewDecompressor(0)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := bytes.Repeat([]byte{byte('a' + i)}, 1000+i)
			got, err := d.Decompress(c.Compress(data))
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
				return
			}
			if !bytes.Equal(got, data) {
				t.Errorf("goroutine %d: round trip changed the data", i)
			}
		}(i)
	}
	wg.Wait()
}
