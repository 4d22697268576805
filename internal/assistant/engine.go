package assistant

import (
	"context"
	"fmt"
	"os"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Engine is the inference boundary: one prompt in, a stream of text fragments
// out. Implementations must be safe for concurrent Predict calls once opened.
type Engine interface {
	// Predict generates up to maxTokens of text, handing each fragment to
	// emit as it is produced. Returning false from emit stops generation.
	Predict(ctx context.Context, prompt string, maxTokens int, emit func(token string) bool) error
	Close()
}

// LlamaEngine runs a GGUF model locally through llama.cpp.
type LlamaEngine struct {
	model *llama.LLama
}

func OpenLlama(modelPath string) (*LlamaEngine, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file not found at %s", modelPath)
	}
	model, err := llama.New(modelPath,
		llama.SetContext(4096),
		llama.SetGPULayers(0),
	)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &LlamaEngine{model: model}, nil
}

func (e *LlamaEngine) Predict(ctx context.Context, prompt string, maxTokens int, emit func(string) bool) error {
	_, err := e.model.Predict(prompt,
		llama.SetTokens(maxTokens),
		llama.SetThreads(4),
		llama.SetTemperature(0.3),
		llama.SetTopP(0.9),
		llama.SetStopWords("QUESTION:", "###"),
		llama.SetTokenCallback(func(token string) bool {
			if ctx.Err() != nil {
				return false
			}
			return emit(token)
		}),
	)
	return err
}

func (e *LlamaEngine) Close() {
	e.model.Free()
}

// GeminiEngine answers through the hosted Gemini API instead of a local
// model. Selected when an API key is configured.
type GeminiEngine struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func OpenGemini(ctx context.Context, apiKey string, maxTokens int) (*GeminiEngine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel("gemini-2.0-flash-001")
	model.SetTemperature(0.3)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(int32(maxTokens))
	return &GeminiEngine{client: client, model: model}, nil
}

func (e *GeminiEngine) Predict(ctx context.Context, prompt string, maxTokens int, emit func(string) bool) error {
	iter := e.model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if txt, ok := part.(genai.Text); ok {
					if !emit(string(txt)) {
						return nil
					}
				}
			}
		}
	}
}

func (e *GeminiEngine) Close() {
	e.client.Close()
}
