package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// perPage is the page size for paginated listings.
const perPage = 100

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a new GitHub client. Requires GITHUB_TOKEN env var.
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	return &Client{
		token:   token,
		apiURL:  apiURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// do performs an authenticated request and returns the response body for 2xx
// statuses.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("authentication failed: %s", string(body))
	}
	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("not found: %s", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// PRFile is one changed file in a pull request.
type PRFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

// ListPRFiles fetches every file changed in a pull request, following
// pagination. Order matches GitHub's listing order.
func (c *Client) ListPRFiles(ctx context.Context, owner, repo string, prNumber int) ([]PRFile, error) {
	var all []PRFile
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=%d&page=%d",
			c.apiURL, owner, repo, prNumber, perPage, page)
		body, err := c.do(ctx, "GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching PR files (page %d): %w", page, err)
		}
		var files []PRFile
		if err := json.Unmarshal(body, &files); err != nil {
			return nil, fmt.Errorf("parsing PR files: %w", err)
		}
		all = append(all, files...)
		if len(files) < perPage {
			return all, nil
		}
	}
}

// TreeEntry is one entry in a repository tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob" or "tree"
	Size int    `json:"size"`
}

// ListTree recursively lists a repository's file tree at the given ref.
// Only blob entries are returned.
func (c *Client) ListTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiURL, owner, repo, ref)
	body, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching tree: %w", err)
	}

	var result struct {
		Tree      []TreeEntry `json:"tree"`
		Truncated bool        `json:"truncated"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing tree: %w", err)
	}
	if result.Truncated {
		fmt.Fprintf(os.Stderr, "Warning: tree listing for %s/%s@%s was truncated by GitHub\n", owner, repo, ref)
	}

	var blobs []TreeEntry
	for _, e := range result.Tree {
		if e.Type == "blob" {
			blobs = append(blobs, e)
		}
	}
	return blobs, nil
}

// GetFileContent fetches a file's raw content at the given ref via the
// contents API.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.apiURL, owner, repo, path, ref)
	body, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("fetching content of %s: %w", path, err)
	}

	var result struct {
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing content of %s: %w", path, err)
	}
	if result.Encoding != "base64" {
		return result.Content, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(result.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decoding content of %s: %w", path, err)
	}
	return string(decoded), nil
}

// PostComment posts a comment on a pull request (via the issues API, which
// covers PRs).
func (c *Client) PostComment(ctx context.Context, owner, repo string, prNumber int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, owner, repo, prNumber)
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}
	if _, err := c.do(ctx, "POST", url, payload); err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}

// CreateIssue opens a tracking issue and returns its number.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (int, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", c.apiURL, owner, repo)
	payload, err := json.Marshal(map[string]any{
		"title":  title,
		"body":   body,
		"labels": labels,
	})
	if err != nil {
		return 0, fmt.Errorf("marshaling issue: %w", err)
	}
	respBody, err := c.do(ctx, "POST", url, payload)
	if err != nil {
		return 0, fmt.Errorf("creating issue: %w", err)
	}
	var result struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("parsing issue response: %w", err)
	}
	return result.Number, nil
}

// CloseIssue closes an issue. Tracking issues are created closed-over so
// they show up in project history without sitting open.
func (c *Client) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.apiURL, owner, repo, number)
	payload, err := json.Marshal(map[string]string{"state": "closed"})
	if err != nil {
		return fmt.Errorf("marshaling issue update: %w", err)
	}
	if _, err := c.do(ctx, "PATCH", url, payload); err != nil {
		return fmt.Errorf("closing issue #%d: %w", number, err)
	}
	return nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL.
func DetectRepo() (owner, repo string, err error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	url := strings.TrimSpace(string(out))
	return ParseRemoteURL(url)
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
