package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
)

// catalogTimeout bounds a model listing request.
const catalogTimeout = 15 * time.Second

// FallbackModels is offered when the catalog cannot be fetched.
var FallbackModels = []model.ModelDescriptor{
	{ID: "meta-llama/llama-3-8b-instruct:free", Name: "Llama 3 8B (Free)", Provider: "Meta", Free: true},
	{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Provider: "Anthropic"},
	{ID: "openai/gpt-4-turbo", Name: "GPT-4 Turbo", Provider: "OpenAI"},
	{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: "OpenAI"},
	{ID: "google/gemini-pro", Name: "Gemini Pro", Provider: "Google"},
}

// Catalog lists the models available to the chat backend. Responses are
// cached in memory according to their HTTP caching headers.
type Catalog struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	referer    string
	title      string
}

// NewCatalog creates a catalog client. cfg.BaseURL is the router API root.
func NewCatalog(cfg Config) *Catalog {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultChatBaseURL
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		cacheTransport.Transport = cfg.HTTPClient.Transport
	}

	referer := cfg.Referer
	if referer == "" {
		referer = DefaultReferer
	}
	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}

	return &Catalog{
		httpClient: &http.Client{Transport: cacheTransport, Timeout: catalogTimeout},
		logger:     common.LoggerOrDefault(cfg.Logger),
		endpoint:   baseURL + "/models",
		referer:    referer,
		title:      title,
	}
}

// price accepts a catalog price given as a JSON string or number.
type price string

func (p *price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = price(n.String())
	return nil
}

type catalogResponse struct {
	Data []struct {
		Pricing *struct {
			Prompt     price `json:"prompt"`
			Completion price `json:"completion"`
		} `json:"pricing"`
		ID            string `json:"id"`
		Name          string `json:"name"`
		ContextLength int    `json:"context_length"`
	} `json:"data"`
}

// List fetches the catalog, sorted free first, then by provider and id.
func (c *Catalog) List(ctx context.Context) ([]model.ModelDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &CatalogFetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CatalogFetchError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes*4))
	if err != nil {
		return nil, &CatalogFetchError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &CatalogFetchError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(body))}
	}

	var decoded catalogResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &CatalogFetchError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	models := make([]model.ModelDescriptor, 0, len(decoded.Data))
	for _, d := range decoded.Data {
		if d.ID == "" {
			continue
		}
		desc := model.ModelDescriptor{
			ID:            d.ID,
			Name:          d.Name,
			Provider:      model.ProviderFromID(d.ID),
			ContextLength: d.ContextLength,
		}
		if d.Pricing != nil {
			desc.Pricing = model.Pricing{
				Prompt:     string(d.Pricing.Prompt),
				Completion: string(d.Pricing.Completion),
			}
			desc.Free = desc.Pricing.IsFree()
		}
		models = append(models, desc)
	}

	SortModels(models)

	c.logger.Debug("fetched model catalog", "count", len(models))
	return models, nil
}

// ListOrFallback returns the catalog, or FallbackModels when it cannot be
// fetched. fromCatalog reports which one was returned.
func (c *Catalog) ListOrFallback(ctx context.Context) (models []model.ModelDescriptor, fromCatalog bool, err error) {
	models, err = c.List(ctx)
	if err == nil {
		return models, true, nil
	}

	c.logger.Warn("failed to load models, using default list", "error", err)
	fallback := make([]model.ModelDescriptor, len(FallbackModels))
	copy(fallback, FallbackModels)
	return fallback, false, err
}

// SortModels orders models free first, then by provider, then by id.
func SortModels(models []model.ModelDescriptor) {
	sort.SliceStable(models, func(i, j int) bool {
		a, b := models[i], models[j]
		if a.Free != b.Free {
			return a.Free
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.ID < b.ID
	})
}

// Partition splits models into free and paid groups, keeping order.
func Partition(models []model.ModelDescriptor) (free, paid []model.ModelDescriptor) {
	for _, m := range models {
		if m.Free {
			free = append(free, m)
		} else {
			paid = append(paid, m)
		}
	}
	return free, paid
}

// Contains reports whether id is one of models.
func Contains(models []model.ModelDescriptor, id string) bool {
	for _, m := range models {
		if m.ID == id {
			return true
		}
	}
	return false
}
