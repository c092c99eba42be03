package artifact

import "testing"

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Artifact
		wantURL    string
		wantOK     bool
	}{
		{
			name: "source distribution wins regardless of order",
			candidates: []Artifact{
				{URL: "http://example.com/a.egg"},
				{URL: "http://example.com/x/source/y.tar.gz"},
			},
			wantURL: "http://example.com/x/source/y.tar.gz",
			wantOK:  true,
		},
		{
			name: "first non-egg when no source distribution",
			candidates: []Artifact{
				{URL: "http://example.com/a.egg"},
				{URL: "http://example.com/b.tar.gz"},
				{URL: "http://example.com/c.tar.gz"},
			},
			wantURL: "http://example.com/b.tar.gz",
			wantOK:  true,
		},
		{
			name: "all eggs falls back to first",
			candidates: []Artifact{
				{URL: "http://example.com/a.egg"},
				{URL: "http://example.com/b.egg"},
			},
			wantURL: "http://example.com/a.egg",
			wantOK:  true,
		},
		{
			name:       "empty list selects nothing",
			candidates: nil,
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.candidates)
			if ok != tt.wantOK {
				t.Fatalf("Select() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.URL != tt.wantURL {
				t.Errorf("Select() = %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}
