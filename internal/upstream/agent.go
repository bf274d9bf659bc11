package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/errors"
)

// AgentClient talks to one session agent over HTTP. Each agent owns a single
// authenticated store session, so one AgentClient == one pooled session.
//
// Agent API:
//
//	GET {base}/objects/{container}/{object}               -> metadata JSON
//	GET {base}/objects/{container}/{object}/chunks/{i}?size=N -> raw bytes
type AgentClient struct {
	baseUrl string
	token   string
	http    *http.Client
}

type agentMetadata struct {
	UniqueId string `json:"unique_id"`
	Size     int64  `json:"size"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

func NewAgentClient(baseUrl, token string) *AgentClient {
	return &AgentClient{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		token:   token,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
				DisableCompression:  true, // raw bytes, chunk boundaries matter
			},
		},
	}
}

// NewAgentPool builds one client per configured agent URL, preserving order
// so the session pool's tie-breaking stays stable across restarts.
func NewAgentPool(urls []string, token string) []Client {
	clients := make([]Client, len(urls))
	for i, u := range urls {
		clients[i] = NewAgentClient(u, token)
	}
	return clients
}

func (c *AgentClient) ResolveObject(ctx context.Context, containerId, objectId int64) (*domain.ObjectMetadata, error) {
	url := fmt.Sprintf("%s/objects/%d/%d", c.baseUrl, containerId, objectId)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var meta agentMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: bad metadata payload", errors.ErrUpstreamUnavailable)
	}

	return &domain.ObjectMetadata{
		Coordinate:        domain.ObjectCoordinate{ContainerId: containerId, ObjectId: objectId},
		UniqueFingerprint: meta.UniqueId,
		SizeBytes:         meta.Size,
		FileName:          meta.FileName,
		MimeType:          meta.MimeType,
	}, nil
}

func (c *AgentClient) ReadChunk(ctx context.Context, meta *domain.ObjectMetadata, chunkIndex, chunkSize int64) ([]byte, error) {
	url := fmt.Sprintf("%s/objects/%d/%d/chunks/%d?size=%d",
		c.baseUrl, meta.Coordinate.ContainerId, meta.Coordinate.ObjectId, chunkIndex, chunkSize)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUpstreamUnavailable, err)
	}
	return buf, nil
}

func (c *AgentClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, errors.ErrObjectNotFound
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: agent returned %d", errors.ErrUpstreamUnavailable, resp.StatusCode)
	}
}
