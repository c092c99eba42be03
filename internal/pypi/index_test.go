package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestIndex starts a fake package index and returns a client for it
func newTestIndex(t *testing.T, handler http.Handler) *Index {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewIndex(server.URL)
}

func TestLatestVersion(t *testing.T) {
	idx := newTestIndex(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pypi/widget/json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"info": {"version": "1.2"}}`)
	}))

	got, err := idx.LatestVersion(context.Background(), "widget")
	if err != nil {
		t.Fatalf("LatestVersion() returned error: %v", err)
	}
	if got != "1.2" {
		t.Errorf("LatestVersion() = %q, want 1.2", got)
	}
}

func TestLatestVersionNotFound(t *testing.T) {
	idx := newTestIndex(t, http.NotFoundHandler())

	_, err := idx.LatestVersion(context.Background(), "nosuchpackage")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Name != "nosuchpackage" {
		t.Errorf("NotFoundError.Name = %q", notFound.Name)
	}
}

func TestArtifactsForSimpleIndexPrimary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/simple/widget/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a href="../../packages/source/w/widget/widget-1.2.tar.gz#md5=abc123">widget-1.2.tar.gz</a><br/>
<a href="../../packages/source/w/widget/widget-1.1.tar.gz#md5=old111">widget-1.1.tar.gz</a><br/>
<a href="../../packages/any/w/widget/widget-1.2-py2-none-any.whl#sha256=deadbeef">widget-1.2-py2-none-any.whl</a><br/>
</body></html>`)
	})

	idx := newTestIndex(t, mux)
	artifacts, err := idx.ArtifactsFor(context.Background(), "widget", "1.2")
	if err != nil {
		t.Fatalf("ArtifactsFor() returned error: %v", err)
	}

	if len(artifacts) != 2 {
		t.Fatalf("got %d artifacts, want 2 (the 1.1 file must be excluded): %v", len(artifacts), artifacts)
	}

	sdist := artifacts[0]
	if sdist.MD5 != "abc123" {
		t.Errorf("sdist digest = %q, want abc123 from the URL fragment", sdist.MD5)
	}
	wantSuffix := "/packages/source/w/widget/widget-1.2.tar.gz"
	if len(sdist.URL) < len(wantSuffix) || sdist.URL[len(sdist.URL)-len(wantSuffix):] != wantSuffix {
		t.Errorf("sdist URL = %q, want resolved URL ending in %q without fragment", sdist.URL, wantSuffix)
	}

	// The wheel declares only sha256, which is not usable for the recipe
	if artifacts[1].MD5 != "" {
		t.Errorf("wheel digest = %q, want empty", artifacts[1].MD5)
	}
}

func TestArtifactsForJSONReleaseFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/gadget/1.5/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"info": {"version": "1.5"},
			"urls": [
				{"url": "http://files.example/gadget-1.5.tar.gz", "digests": {"md5": "d1d1d1"}}
			]
		}`)
	})

	idx := newTestIndex(t, mux)
	artifacts, err := idx.ArtifactsFor(context.Background(), "gadget", "1.5")
	if err != nil {
		t.Fatalf("ArtifactsFor() returned error: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(artifacts))
	}
	if artifacts[0].MD5 != "d1d1d1" {
		t.Errorf("digest = %q, want d1d1d1", artifacts[0].MD5)
	}
}

func TestArtifactsForDownloadURLFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/gadget/1.5/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"info": {"version": "1.5", "download_url": "http://example.com/gadget-1.5.zip"}, "urls": []}`)
	})

	idx := newTestIndex(t, mux)
	artifacts, err := idx.ArtifactsFor(context.Background(), "gadget", "1.5")
	if err != nil {
		t.Fatalf("ArtifactsFor() returned error: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].URL != "http://example.com/gadget-1.5.zip" {
		t.Fatalf("unexpected artifacts: %v", artifacts)
	}
	if artifacts[0].MD5 != "" {
		t.Error("synthesized artifact must not carry a digest")
	}
}

func TestArtifactsForPackageURLLastResort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/gadget/1.5/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"info": {"version": "1.5", "download_url": "UNKNOWN", "package_url": "http://example.com/project/gadget/"}, "urls": []}`)
	})

	idx := newTestIndex(t, mux)
	artifacts, err := idx.ArtifactsFor(context.Background(), "gadget", "1.5")
	if err != nil {
		t.Fatalf("ArtifactsFor() returned error: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].URL != "http://example.com/project/gadget/" {
		t.Fatalf("unexpected artifacts: %v", artifacts)
	}
}

func TestArtifactsForNothingDeclared(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/gadget/1.5/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"info": {"version": "1.5"}, "urls": []}`)
	})

	idx := newTestIndex(t, mux)
	artifacts, err := idx.ArtifactsFor(context.Background(), "gadget", "1.5")
	if err != nil {
		t.Fatalf("ArtifactsFor() returned error: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("expected no artifacts, got %v", artifacts)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Widget", "widget"},
		{"Zope.Interface", "zope-interface"},
		{"some_package", "some-package"},
		{"weird.-_name", "weird-name"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
