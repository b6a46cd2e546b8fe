package pagination

import (
	"net/url"
	"testing"
)

func TestFromQueryDefaults(t *testing.T) {
	params := FromQuery(url.Values{})
	if params.Page != 0 || params.Size != DefaultSize {
		t.Fatalf("unexpected defaults: %+v", params)
	}

	params = FromQuery(url.Values{"page": {"junk"}, "size": {"-3"}})
	if params.Page != 0 || params.Size != DefaultSize {
		t.Fatalf("malformed input should normalize: %+v", params)
	}
}

func TestNormalizeClampsSize(t *testing.T) {
	params := Params{Page: -1, Size: 10_000}.Normalize()
	if params.Page != 0 {
		t.Fatalf("negative page should clamp to zero, got %d", params.Page)
	}
	if params.Size != MaxSize {
		t.Fatalf("size should clamp to %d, got %d", MaxSize, params.Size)
	}
}

func TestOffset(t *testing.T) {
	params := Params{Page: 3, Size: 25}
	if got := params.Offset(); got != 75 {
		t.Fatalf("expected offset 75, got %d", got)
	}
}

func TestNewPageTotals(t *testing.T) {
	page := NewPage([]string{"a", "b"}, Params{Page: 0, Size: 2}, 5)
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 5 rows of size 2, got %d", page.TotalPages)
	}
	if page.TotalElements != 5 {
		t.Fatalf("unexpected total %d", page.TotalElements)
	}

	empty := NewPage[string](nil, Params{Page: 0, Size: 2}, 0)
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("nil items should serialize as an empty list")
	}
	if empty.TotalPages != 0 {
		t.Fatalf("expected 0 pages, got %d", empty.TotalPages)
	}
}
