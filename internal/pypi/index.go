package pypi

import (
	"context"
	"errors"
	"fmt"

	"github.com/aurpkg/pypup/internal/artifact"
	"github.com/aurpkg/pypup/internal/common/logger"
)

// projectResponse is the shape of /pypi/<name>/json and
// /pypi/<name>/<version>/json
type projectResponse struct {
	Info struct {
		Version     string `json:"version"`
		DownloadURL string `json:"download_url"`
		PackageURL  string `json:"package_url"`
	} `json:"info"`
	URLs []releaseFile `json:"urls"`
}

// releaseFile is one declared download of a release
type releaseFile struct {
	URL     string            `json:"url"`
	Digests map[string]string `json:"digests"`
}

// LatestVersion returns the index's current release identifier for a
// package. The identifier is an opaque token, not guaranteed numeric.
// An unknown package yields a NotFoundError.
func (idx *Index) LatestVersion(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", idx.baseURL, name)

	var resp projectResponse
	if err := idx.getJSON(ctx, url, &resp); err != nil {
		if errors.Is(err, errStatusNotFound) {
			return "", &NotFoundError{Name: name}
		}
		return "", err
	}

	if resp.Info.Version == "" {
		return "", &NotFoundError{Name: name}
	}

	return resp.Info.Version, nil
}

// ArtifactsFor returns the candidate download artifacts for a release.
//
// The simple index page is the primary source since it declares a
// digest with each file. When it yields nothing, the JSON API is the
// fallback: the declared release files first, then a single artifact
// synthesized from the generic download URL, then from the package
// homepage as a last resort. The last two tiers carry no digest.
func (idx *Index) ArtifactsFor(ctx context.Context, name, version string) ([]artifact.Artifact, error) {
	artifacts, err := idx.simpleArtifacts(ctx, name, version)
	if err != nil {
		logger.Debug("simple index lookup for %s failed: %v", name, err)
	}
	if len(artifacts) > 0 {
		return artifacts, nil
	}

	url := fmt.Sprintf("%s/pypi/%s/%s/json", idx.baseURL, name, version)

	var resp projectResponse
	if err := idx.getJSON(ctx, url, &resp); err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, err
	}

	if len(resp.URLs) > 0 {
		artifacts = make([]artifact.Artifact, 0, len(resp.URLs))
		for _, f := range resp.URLs {
			artifacts = append(artifacts, artifact.Artifact{
				URL: f.URL,
				MD5: f.Digests["md5"],
			})
		}
		return artifacts, nil
	}

	if u := resp.Info.DownloadURL; u != "" && u != "UNKNOWN" {
		return []artifact.Artifact{{URL: u}}, nil
	}

	if u := resp.Info.PackageURL; u != "" {
		return []artifact.Artifact{{URL: u}}, nil
	}

	return nil, nil
}
