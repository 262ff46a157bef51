// Package update checks GitHub releases for a newer spawn version.
// The check runs at most once per day and is advisory only.
package update

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/OpenRouterTeam/spawn-sub007/internal/cache"
	"github.com/OpenRouterTeam/spawn-sub007/internal/config"
	"github.com/OpenRouterTeam/spawn-sub007/internal/httpjson"
)

const (
	apiBaseURL   = "https://api.github.com"
	releasePath  = "/repos/OpenRouterTeam/spawn/releases/latest"
	cacheKey     = "update-check"
	checkTimeout = 5 * time.Second
)

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type checkResult struct {
	LatestVersion string `json:"latest_version"`
	ReleaseURL    string `json:"release_url"`
}

// Checker queries for the latest published release.
type Checker struct {
	// BaseURL overrides the GitHub API endpoint, for tests.
	BaseURL string
}

// Notice describes an available upgrade.
type Notice struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Check returns a Notice when a release newer than currentVersion
// exists. It returns (nil, nil) when up to date, when the check is
// disabled, or for development builds. Network failures are returned
// so callers can log them at debug level, but a cached result from the
// last day short-circuits the request entirely.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Notice, error) {
	if config.UpdateCheckDisabled() {
		return nil, nil
	}
	if currentVersion == "" || currentVersion == "dev" {
		return nil, nil
	}

	var cached checkResult
	hit, err := cache.Get(cacheKey, &cached, 24*time.Hour)
	if err == nil && hit {
		return notice(currentVersion, cached), nil
	}

	base := c.BaseURL
	if base == "" {
		base = apiBaseURL
	}
	client := httpjson.New(base, "")
	client.HTTPClient.Timeout = checkTimeout

	resp, err := client.Request(ctx, "GET", releasePath, nil)
	if err != nil {
		return nil, err
	}
	var rel release
	if err := resp.Decode(&rel); err != nil {
		return nil, err
	}

	result := checkResult{
		LatestVersion: strings.TrimPrefix(rel.TagName, "v"),
		ReleaseURL:    rel.HTMLURL,
	}
	// Best effort; a failed cache write only means one extra request
	// tomorrow.
	_ = cache.Set(cacheKey, result)

	return notice(currentVersion, result), nil
}

func notice(currentVersion string, result checkResult) *Notice {
	if result.LatestVersion == "" {
		return nil
	}
	if !versionLess(strings.TrimPrefix(currentVersion, "v"), result.LatestVersion) {
		return nil
	}
	return &Notice{
		CurrentVersion: currentVersion,
		LatestVersion:  result.LatestVersion,
		ReleaseURL:     result.ReleaseURL,
	}
}

// versionLess reports whether a is an older semantic version than b.
// Unparseable components compare as zero.
func versionLess(a, b string) bool {
	as := strings.SplitN(a, ".", 3)
	bs := strings.SplitN(b, ".", 3)
	for i := 0; i < 3; i++ {
		av, bv := component(as, i), component(bs, i)
		if av != bv {
			return av < bv
		}
	}
	return false
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	// Strip prerelease/build suffixes like "3-rc1".
	numeric := parts[i]
	if idx := strings.IndexAny(numeric, "-+"); idx >= 0 {
		numeric = numeric[:idx]
	}
	n, err := strconv.Atoi(numeric)
	if err != nil {
		return 0
	}
	return n
}
