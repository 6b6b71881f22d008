package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// styleSuffix is appended to every story prompt to steer the model towards
// consistent children's book covers.
const styleSuffix = "Style: Children's picture book illustration, warm and inviting, soft lighting, \n" +
	"detailed but not overwhelming, suitable for young readers, family-friendly atmosphere."

// Config holds the settings for the OpenAI image client
type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	return nil
}

// Client generates single square cover illustrations through the OpenAI
// images API and downloads the result.
type Client struct {
	api        *openai.Client
	httpClient *http.Client
	model      string
}

// NewClient creates an image generation client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = openai.CreateImageModelDallE3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIURL != "" {
		apiCfg.BaseURL = cfg.APIURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		model:      cfg.Model,
	}, nil
}

// EnhancePrompt combines a story's image prompt with the fixed illustration
// style guidance sent to the model.
func EnhancePrompt(prompt string) string {
	return fmt.Sprintf("\n%s\n\n%s\n", prompt, styleSuffix)
}

// Generate requests one 1024x1024 standard-quality image for the prompt and
// returns the downloaded PNG bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:          c.model,
		Prompt:         EnhancePrompt(prompt),
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image response contained no data")
	}

	return c.download(ctx, resp.Data[0].URL)
}

// download fetches the generated image from the short-lived URL the API returns.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}
