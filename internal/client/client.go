// internal/client/client.go
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobmindr/internal/common/config"
	apperrors "jobmindr/internal/common/errors"
	commonhttp "jobmindr/internal/common/http"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/validation"
	"jobmindr/internal/models"

	"github.com/allegro/bigcache/v3"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Errors  []validation.ValidationError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status,
		strings.Join((&validation.ValidationResult{Errors: e.Errors}).GetErrorMessages(), "; "))
}

// DeleteResult is the answer to a bulk delete.
type DeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func NewConfig(cfg *config.ClientConfig) *Config {
	return &Config{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Timeout:  config.GetDuration(cfg.Timeout),
		CacheTTL: config.GetDuration(cfg.CacheTTL),
	}
}

// Client talks to the job application API. List results are cached in
// process, keyed by the canonical filter, until the next successful mutation.
type Client struct {
	config *Config
	http   *commonhttp.Client
	cache  *bigcache.BigCache
	logger logger.Logger
}

// New builds a client. A zero CacheTTL disables list caching.
func New(cfg *Config, log logger.Logger) (*Client, error) {
	c := &Client{
		config: cfg,
		http:   commonhttp.NewClient(cfg.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "api-client"}),
	}
	if cfg.CacheTTL <= 0 {
		return c, nil
	}

	cacheCfg := bigcache.DefaultConfig(cfg.CacheTTL)
	cacheCfg.Shards = 16
	cacheCfg.MaxEntriesInWindow = 1024
	cacheCfg.MaxEntrySize = 4096
	cacheCfg.CleanWindow = cfg.CacheTTL
	cacheCfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("init list cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// ListApplications returns the filtered, sorted listing.
func (c *Client) ListApplications(ctx context.Context, filter models.ListFilter) ([]models.JobApplication, error) {
	key := filter.CacheKey()
	if apps, ok := c.cached(key); ok {
		return apps, nil
	}

	target := c.url("/job-applications")
	if q := filter.Query().Encode(); q != "" {
		target += "?" + q
	}

	var apps []models.JobApplication
	if err := c.do(ctx, http.MethodGet, target, nil, &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.JobApplication{}
	}
	c.store(key, apps)
	return apps, nil
}

func (c *Client) CreateApplication(ctx context.Context, app *models.NewJobApplication) (*models.JobApplication, error) {
	var created models.JobApplication
	if err := c.do(ctx, http.MethodPost, c.url("/job-applications"), app, &created); err != nil {
		return nil, err
	}
	c.invalidate()
	return &created, nil
}

func (c *Client) UpdateApplication(ctx context.Context, patch *models.ApplicationPatch) (*models.JobApplication, error) {
	var updated models.JobApplication
	target := c.url("/job-applications/" + strconv.FormatInt(patch.ID, 10))
	if err := c.do(ctx, http.MethodPut, target, patch, &updated); err != nil {
		return nil, err
	}
	c.invalidate()
	return &updated, nil
}

// UpdateStatus changes only the application status.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.JobApplication, error) {
	return c.UpdateApplication(ctx, models.StatusPatch(id, status))
}

func (c *Client) DeleteApplications(ctx context.Context, ids []int64) (*DeleteResult, error) {
	if ids == nil {
		ids = []int64{}
	}
	var result DeleteResult
	body := map[string][]int64{"ids": ids}
	if err := c.do(ctx, http.MethodDelete, c.url("/job-applications"), body, &result); err != nil {
		return nil, err
	}
	c.invalidate()
	return &result, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, c.url("/login"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) url(path string) string {
	return c.config.BaseURL + path
}

func (c *Client) do(ctx context.Context, method, target string, in, out interface{}) error {
	err := c.http.DoJSON(ctx, method, target, in, out)
	if err == nil {
		return nil
	}

	var statusErr *commonhttp.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	apiErr := &APIError{Status: statusErr.StatusCode, Message: http.StatusText(statusErr.StatusCode)}
	var body apperrors.ErrorResponse
	if json.Unmarshal(statusErr.Body, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
	}
	c.logger.Debug("api request failed", map[string]interface{}{
		"method": method,
		"url":    redact(target),
		"status": apiErr.Status,
	})
	return apiErr
}

func (c *Client) cached(key string) ([]models.JobApplication, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	var apps []models.JobApplication
	if err := json.Unmarshal(raw, &apps); err != nil {
		_ = c.cache.Delete(key)
		return nil, false
	}
	return apps, true
}

func (c *Client) store(key string, apps []models.JobApplication) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(apps)
	if err != nil {
		return
	}
	if err := c.cache.Set(key, raw); err != nil {
		c.logger.Warn("failed to cache listing", map[string]interface{}{"error": err})
	}
}

func (c *Client) invalidate() {
	if c.cache == nil {
		return
	}
	if err := c.cache.Reset(); err != nil {
		c.logger.Warn("failed to reset listing cache", map[string]interface{}{"error": err})
	}
}

// redact drops the query so filter values stay out of logs.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	u.RawQuery = ""
	return u.String()
}
