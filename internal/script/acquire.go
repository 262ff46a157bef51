package script

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const downloadTimeout = 60 * time.Second

// Cause classifies why both download attempts failed.
type Cause string

const (
	// CauseNotFound: either URL returned 404; the combination has no
	// published launcher.
	CauseNotFound Cause = "notFound"

	// CauseServerError: a server answered but with a failure status.
	CauseServerError Cause = "serverError"

	// CauseNetworkError: neither attempt produced a response at all.
	CauseNetworkError Cause = "networkError"
)

// DownloadError reports that both the primary URL and the mirror failed.
type DownloadError struct {
	Cause    Cause
	Primary  string
	Fallback string
	Detail   string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed (%s): %s", e.Cause, e.Detail)
}

// Remediation returns user-facing guidance for the failure cause.
func (e *DownloadError) Remediation() string {
	switch e.Cause {
	case CauseNotFound:
		return "The launcher script could not be found. Run 'spawn list' to check which agent/cloud combinations are implemented."
	case CauseServerError:
		return "The download server returned an error. This is usually transient; try the same command again in a moment."
	default:
		return "Could not reach the download servers. Check your network connection and try again."
	}
}

// attempt records the outcome of one fetch for later classification.
type attempt struct {
	status int // 0 when no response was received
	err    error
}

// Downloader fetches launcher payloads with a primary/mirror fallback.
type Downloader struct {
	HTTPClient *http.Client
}

// DownloadWithFallback fetches the primary URL and, on any failure, the
// fallback mirror. usedFallback reports which source produced the
// content. When both fail the error is a *DownloadError classified by the
// more informative of the two outcomes.
func (d *Downloader) DownloadWithFallback(ctx context.Context, primary, fallback string) (content []byte, usedFallback bool, err error) {
	client := d.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	body, first := fetch(ctx, client, primary)
	if first.err == nil {
		return body, false, nil
	}

	body, second := fetch(ctx, client, fallback)
	if second.err == nil {
		return body, true, nil
	}

	return nil, false, classify(primary, fallback, first, second)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, attempt) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, attempt{err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, attempt{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, attempt{status: resp.StatusCode, err: fmt.Errorf("%s returned %d", url, resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, attempt{status: resp.StatusCode, err: err}
	}
	return body, attempt{status: resp.StatusCode}
}

// classify picks the most informative cause across both attempts: a 404
// beats a 5xx (the script genuinely is not there), which beats a bare
// transport failure.
func classify(primary, fallback string, first, second attempt) *DownloadError {
	e := &DownloadError{Primary: primary, Fallback: fallback}

	switch {
	case first.status == http.StatusNotFound || second.status == http.StatusNotFound:
		e.Cause = CauseNotFound
	case first.status >= 400 || second.status >= 400:
		e.Cause = CauseServerError
	default:
		e.Cause = CauseNetworkError
	}

	detail := second.err
	if detail == nil {
		detail = first.err
	}
	e.Detail = detail.Error()
	return e
}
