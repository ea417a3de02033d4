package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GOLDhjy/GCompare/internal/logging"
)

// DefaultFeedURL is the release feed consulted for newer versions.
const DefaultFeedURL = "https://api.github.com/repos/GOLDhjy/GCompare/releases/latest"

// Release is the subset of the feed payload the app cares about.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
}

// Service checks the release feed and reports whether a newer build exists.
// Failures are informational only; the app never blocks on update checks.
type Service struct {
	client  *http.Client
	feedURL string
	version string
	log     logging.Logger
}

func NewService(version, feedURL string, logger logging.Logger) *Service {
	if strings.TrimSpace(feedURL) == "" {
		feedURL = DefaultFeedURL
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		client:  &http.Client{Timeout: 15 * time.Second},
		feedURL: feedURL,
		version: version,
		log:     logger,
	}
}

// Check fetches the latest release. It returns (nil, nil) when the running
// version is already current.
func (s *Service) Check(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release feed returned %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release feed: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release feed has no tag")
	}

	if !Newer(release.TagName, s.version) {
		s.log.Debug("no update", "current", s.version, "latest", release.TagName)
		return nil, nil
	}
	s.log.Info("update available", "current", s.version, "latest", release.TagName)
	return &release, nil
}

// Newer reports whether candidate is a strictly newer dotted version than
// current. Missing segments count as zero; a leading "v" is ignored.
func Newer(candidate, current string) bool {
	a := versionParts(candidate)
	b := versionParts(current)
	for len(a) < len(b) {
		a = append(a, 0)
	}
	for len(b) < len(a) {
		b = append(b, 0)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, seg := range strings.Split(v, ".") {
		n, err := strconv.Atoi(seg)
		if err != nil {
			n = 0
		}
		parts = append(parts, n)
	}
	return parts
}
