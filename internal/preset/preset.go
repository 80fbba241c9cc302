// Package preset finds, downloads and copies project presets: small
// bundles of yaml files describing a project layout, hosted on the
// community hub or cached locally.
package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Files are the configuration files that make up a preset; anything
// else in a preset repository is ignored.
var Files = []string{
	"be.yaml",
	"inventory.yaml",
	"templates.yaml",
	"environment.yaml",
	"tasks.yaml",
	"users.yaml",
}

// required are the files a repository must carry to count as a preset.
var required = []string{"templates.yaml", "inventory.yaml"}

// Client talks to the preset hub and to GitHub.
type Client struct {
	HTTP     *http.Client
	IndexURL string
	// Token raises the GitHub API rate limit; optional.
	Token string
}

// NewClient returns a client with a sane timeout.
func NewClient(indexURL, token string) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		IndexURL: indexURL,
		Token:    token,
	}
}

// Index fetches the hub index and returns preset name to repository
// ("user/repo") mappings.
func (c *Client) Index(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.IndexURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preset index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("preset index returned %s", resp.Status)
	}

	var index struct {
		Presets []struct {
			Name       string `json:"name"`
			Repository string `json:"repository"`
		} `json:"presets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("decoding preset index: %w", err)
	}

	presets := make(map[string]string, len(index.Presets))
	for _, p := range index.Presets {
		presets[p.Name] = p.Repository
	}
	return presets, nil
}

// APIBase is the GitHub API root; tests point it elsewhere.
var APIBase = "https://api.github.com"

type repoFile struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// Pull downloads the preset files of repository ("user/repo") into
// dest. A repository without the required yaml files is rejected.
func (c *Client) Pull(ctx context.Context, repository, dest string) error {
	files, err := c.contents(ctx, repository)
	if err != nil {
		return err
	}

	byName := make(map[string]repoFile, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}
	for _, name := range required {
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("%s is not a be preset (missing %s)", repository, name)
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating preset dir: %w", err)
	}
	for _, name := range Files {
		f, ok := byName[name]
		if !ok {
			continue
		}
		if err := c.download(ctx, f.DownloadURL, filepath.Join(dest, name)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) contents(ctx context.Context, repository string) ([]repoFile, error) {
	url := APIBase + "/repos/" + repository + "/contents"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", repository, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, fmt.Errorf("rate limited by GitHub; set a github_api_token to raise the limit")
	case http.StatusNotFound:
		return nil, fmt.Errorf("repository %s not found", repository)
	default:
		return nil, fmt.Errorf("listing %s: %s", repository, resp.Status)
	}

	var files []repoFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decoding contents of %s: %w", repository, err)
	}
	return files, nil
}

func (c *Client) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", filepath.Base(dest), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: %s", filepath.Base(dest), resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return out.Close()
}

// Local lists the presets cached under dir, sorted.
func Local(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Remove deletes a local preset.
func Remove(dir, name string) error {
	return os.RemoveAll(filepath.Join(dir, name))
}

// Copy copies a preset's files into a new project directory. The
// destination must not already exist.
func Copy(src, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s already exists", dest)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading preset: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, entry.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dest, entry.Name()), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
