package listing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the public AUR frontend
const DefaultBaseURL = "https://aur.archlinux.org"

// perPage is the page size requested from the search endpoint
const perPage = 250

var (
	// ErrListingFetch is returned when the maintainer listing could
	// not be retrieved; this is fatal for the run
	ErrListingFetch = errors.New("failed to fetch maintainer package listing")
)

// AURSource scrapes the maintainer search results of the AUR web
// frontend. It implements Source.
type AURSource struct {
	baseURL string
	user    string
	client  *http.Client
}

// NewAURSource creates a listing source for the given maintainer.
// An empty baseURL selects the public AUR.
func NewAURSource(baseURL, user string) *AURSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AURSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		user:    user,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// List returns all packages maintained by the configured user,
// following result pagination until a short page is returned.
func (s *AURSource) List(ctx context.Context) ([]Package, error) {
	var packages []Package

	for offset := 0; ; offset += perPage {
		page, err := s.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		packages = append(packages, page...)
		if len(page) < perPage {
			break
		}
	}

	return packages, nil
}

// fetchPage retrieves and parses one page of search results
func (s *AURSource) fetchPage(ctx context.Context, offset int) ([]Package, error) {
	query := url.Values{}
	query.Set("SeB", "m") // search by maintainer
	query.Set("K", s.user)
	query.Set("PP", fmt.Sprint(perPage))
	query.Set("O", fmt.Sprint(offset))
	pageURL := s.baseURL + "/packages/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListingFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d (check the configured user)", ErrListingFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListingFetch, err)
	}

	return parseResults(doc), nil
}

// parseResults extracts (name, version) pairs from a search results table
func parseResults(doc *goquery.Document) []Package {
	var packages []Package

	doc.Find("table.results tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		name := strings.TrimSpace(cells.Eq(0).Text())
		version := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" || version == "" {
			return
		}

		packages = append(packages, Package{
			Name:    name,
			Version: stripRelease(version),
		})
	})

	return packages
}

// stripRelease drops the trailing release counter from a listed
// version, e.g. 1.0-2 becomes 1.0. Only the upstream part takes part
// in version comparison.
func stripRelease(version string) string {
	if i := strings.LastIndex(version, "-"); i > 0 {
		return version[:i]
	}
	return version
}
