package politeness

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"github.com/moodreel/backend/internal/config"
)

// PolitenessManager decides whether a remote catalog may be fetched
// according to the host's robots.txt.
type PolitenessManager struct {
	config      config.FetchConfig
	client      *http.Client
	logger      *logrus.Entry
	robotsCache map[string]*RobotsEntry
	mu          sync.RWMutex
}

// RobotsEntry caches robots.txt data
type RobotsEntry struct {
	robots    *robotstxt.RobotsData
	fetchTime time.Time
}

// NewPolitenessManager creates a new politeness manager
func NewPolitenessManager(cfg config.FetchConfig, client *http.Client, logger *logrus.Entry) *PolitenessManager {
	if logger == nil {
		logger = logrus.WithField("component", "politeness_manager")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &PolitenessManager{
		config:      cfg,
		client:      client,
		logger:      logger,
		robotsCache: make(map[string]*RobotsEntry),
	}
}

// IsURLAllowed checks if URL is allowed according to robots.txt. A robots.txt
// that cannot be fetched allows the request.
func (pm *PolitenessManager) IsURLAllowed(ctx context.Context, rawURL string) (bool, error) {
	if !pm.config.RespectRobots {
		return true, nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Host == "" {
		return false, fmt.Errorf("invalid URL: missing host in %q", rawURL)
	}

	robotsData, err := pm.getRobotsData(ctx, parsedURL.Scheme, parsedURL.Host)
	if err != nil {
		pm.logger.WithError(err).WithField("domain", parsedURL.Host).Warn("Failed to get robots.txt, allowing request")
		return true, nil
	}

	if robotsData == nil {
		return true, nil
	}

	group := robotsData.FindGroup(pm.config.UserAgent)
	if group == nil {
		return true, nil
	}

	path := parsedURL.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), nil
}

// getRobotsData fetches and caches robots.txt data
func (pm *PolitenessManager) getRobotsData(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	key := scheme + "://" + host

	pm.mu.RLock()
	entry, exists := pm.robotsCache[key]
	pm.mu.RUnlock()

	if exists && time.Since(entry.fetchTime) < pm.config.RobotsCacheDuration {
		return entry.robots, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", pm.config.UserAgent)

	resp, err := pm.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	var robotsData *robotstxt.RobotsData
	if resp.StatusCode == http.StatusOK {
		robotsData, err = robotstxt.FromResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
		}
	}

	// Cache the result (even if nil for 404s)
	pm.mu.Lock()
	pm.robotsCache[key] = &RobotsEntry{
		robots:    robotsData,
		fetchTime: time.Now(),
	}
	pm.mu.Unlock()

	return robotsData, nil
}
