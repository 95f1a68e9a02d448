package vector

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Service names the server-side embedding provider used for $vectorize.
type Service struct {
	Provider       string
	ModelName      string
	Authentication map[string]any
	Parameters     map[string]any
	// Extra holds service keys the model does not recognize, and recognized
	// keys whose value has an unexpected shape.
	Extra map[string]any
}

func (s Service) validate() error {
	if s.Provider == "" {
		return fmt.Errorf("vector service provider is required")
	}
	if s.ModelName == "" {
		return fmt.Errorf("vector service model name is required")
	}
	return nil
}

// Width describes the embedding width a provider model produces.
// Fixed models always emit Dimension; others accept any dimension up to it.
type Width struct {
	Dimension int
	Fixed     bool
}

// Provider names with a known width table.
const (
	ProviderOpenAI = "openai"
	ProviderNvidia = "nvidia"
)

var widths = map[string]map[string]Width{
	ProviderOpenAI: {
		string(openai.AdaEmbeddingV2):  {Dimension: 1536, Fixed: true},
		string(openai.SmallEmbedding3): {Dimension: 1536},
		string(openai.LargeEmbedding3): {Dimension: 3072},
	},
	ProviderNvidia: {
		"NV-Embed-QA": {Dimension: 1024, Fixed: true},
	},
}

// LookupWidth returns the known width of a provider model.
func LookupWidth(provider, model string) (Width, bool) {
	models, ok := widths[provider]
	if !ok {
		return Width{}, false
	}
	w, ok := models[model]
	return w, ok
}

// checkWidth enforces that an explicit dimension agrees with the service model.
// Unknown provider models are not checked.
func checkWidth(s Service, dimension int) error {
	if dimension == 0 {
		return nil
	}
	w, ok := LookupWidth(s.Provider, s.ModelName)
	if !ok {
		return nil
	}
	if w.Fixed && dimension != w.Dimension {
		return fmt.Errorf("dimension %d does not match %s/%s width %d",
			dimension, s.Provider, s.ModelName, w.Dimension)
	}
	if !w.Fixed && dimension > w.Dimension {
		return fmt.Errorf("dimension %d exceeds %s/%s maximum %d",
			dimension, s.Provider, s.ModelName, w.Dimension)
	}
	return nil
}
