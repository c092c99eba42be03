package pypi

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"

	"github.com/aurpkg/pypup/internal/artifact"
)

// nameSeparators collapses runs of name punctuation for simple index
// URLs (PEP 503 normalization)
var nameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName lowercases a package name and collapses separator runs
// to single dashes, the form the simple index serves pages under
func NormalizeName(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(name), "-")
}

// simpleArtifacts parses the simple index page of a package and
// returns the files belonging to the given release. File links carry
// their digest in the URL fragment; only MD5 fragments are kept since
// that is the digest recipes embed.
func (idx *Index) simpleArtifacts(ctx context.Context, name, version string) ([]artifact.Artifact, error) {
	pageURL := fmt.Sprintf("%s/simple/%s/", idx.baseURL, NormalizeName(name))

	body, err := idx.getBody(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse simple index page: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	links, err := htmlquery.QueryAll(doc, "//a")
	if err != nil {
		return nil, err
	}

	var artifacts []artifact.Artifact
	for _, link := range links {
		href := htmlquery.SelectAttr(link, "href")
		if href == "" {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)

		if !fileMatchesVersion(path.Base(resolved.Path), version) {
			continue
		}

		var md5sum string
		if digest, ok := strings.CutPrefix(resolved.Fragment, "md5="); ok {
			md5sum = digest
		}
		resolved.Fragment = ""

		artifacts = append(artifacts, artifact.Artifact{
			URL: resolved.String(),
			MD5: md5sum,
		})
	}

	return artifacts, nil
}

// fileMatchesVersion reports whether a distribution filename belongs
// to the given release. The version appears delimited by a dash on the
// left and a dot or dash on the right, e.g. widget-1.2.tar.gz or
// widget-1.2-py2-none-any.whl.
func fileMatchesVersion(filename, version string) bool {
	return strings.Contains(filename, "-"+version+".") ||
		strings.Contains(filename, "-"+version+"-")
}
