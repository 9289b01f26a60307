// Package openai provides recipe generation through any OpenAI-compatible
// chat completion API, including a local Ollama endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bonpetite/planner/internal/infrastructure/config"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// Client implements the RecipeGenerator interface against an
// OpenAI-compatible chat completion endpoint
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a generation client from configuration. Without an
// OpenAI key it falls back to a local Ollama endpoint.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	apiKey := cfg.OpenAIKey
	baseURL := "https://api.openai.com/v1"
	model := cfg.OpenAIModel

	if apiKey == "" {
		logger.Info("OpenAI API key not configured, using local Ollama for recipe generation",
			zap.String("url", cfg.OllamaURL),
			zap.String("model", cfg.OllamaModel),
		)
		baseURL = strings.TrimSuffix(cfg.OllamaURL, "/") + "/v1"
		apiKey = "ollama" // Dummy key for Ollama
		model = cfg.OllamaModel
	}

	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("recipe-generator"),
	}
}

// OpenAI API structures
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Generate produces one recipe candidate for the given meal category and
// constraints. The model must answer with a single JSON object; anything
// else is a generation failure.
func (c *Client) Generate(ctx context.Context, req outbound.GenerationRequest) (*outbound.GeneratedRecipe, error) {
	response, err := c.callChatCompletion(ctx, buildSystemPrompt(req), buildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	generated, err := parseRecipeResponse(response)
	if err != nil {
		c.logger.Warn("Failed to parse generation response", zap.Error(err))
		return nil, err
	}

	if generated.MealType == "" {
		generated.MealType = req.MealType
	}

	return generated, nil
}

// buildSystemPrompt fixes the response contract and bakes in the hard
// constraints the recipe must honor.
func buildSystemPrompt(req outbound.GenerationRequest) string {
	var b strings.Builder

	b.WriteString(`You are an expert chef and meal planner. Create one practical recipe.

CRITICAL: Respond with ONLY a valid JSON object in the exact format below. No explanatory text, no markdown fences.

Required JSON format:
{
  "name": "Recipe Name",
  "description": "Brief description of the dish",
  "ingredients": [
    {"name": "ingredient name", "quantity": 1.5, "unit": "cup"}
  ],
  "instructions": ["Step 1 text", "Step 2 text"],
  "nutrition": {"calories": 350, "protein": 25.0, "carbs": 30.0, "fat": 15.0},
  "prep_time_minutes": 15,
  "cook_time_minutes": 25,
  "servings": 4,
  "difficulty": "easy|medium|hard",
  "cuisine_type": "cuisine",
  "meal_type": "breakfast|lunch|dinner|snack",
  "tags": ["tag1", "tag2"],
  "confidence": 0.9,
  "variety_score": 0.8,
  "nutrition_accuracy": 0.85
}`)

	if len(req.Allergies) > 0 {
		fmt.Fprintf(&b, "\n\nThe recipe MUST NOT contain these allergens: %s", strings.Join(req.Allergies, ", "))
	}
	if len(req.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "\nDietary restrictions: %s", strings.Join(req.DietaryRestrictions, ", "))
	}
	if req.MaxPrepMinutes != nil {
		fmt.Fprintf(&b, "\nMaximum preparation time: %d minutes", *req.MaxPrepMinutes)
	}
	if req.Difficulty != nil {
		fmt.Fprintf(&b, "\nDifficulty level: %s", *req.Difficulty)
	}
	if req.NutritionTargets != nil {
		if req.NutritionTargets.Calories != nil {
			fmt.Fprintf(&b, "\nTarget calories per serving: %d", *req.NutritionTargets.Calories)
		}
		if req.NutritionTargets.Protein != nil {
			fmt.Fprintf(&b, "\nTarget protein per serving: %.0fg", *req.NutritionTargets.Protein)
		}
		if req.NutritionTargets.Carbs != nil {
			fmt.Fprintf(&b, "\nTarget carbs per serving: %.0fg", *req.NutritionTargets.Carbs)
		}
		if req.NutritionTargets.Fat != nil {
			fmt.Fprintf(&b, "\nTarget fat per serving: %.0fg", *req.NutritionTargets.Fat)
		}
	}

	b.WriteString("\n\nRemember: Respond with ONLY valid JSON. No additional text or formatting.")

	return b.String()
}

// buildUserPrompt carries the per-request wishes.
func buildUserPrompt(req outbound.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a %s recipe.", req.MealType)

	if len(req.CuisinePreferences) > 0 {
		fmt.Fprintf(&b, "\nPreferred cuisines: %s", strings.Join(req.CuisinePreferences, ", "))
	}
	if len(req.VarietyHints) > 0 {
		fmt.Fprintf(&b, "\nFor variety, avoid repeating these recent dishes: %s", strings.Join(req.VarietyHints, ", "))
	}

	return b.String()
}

// callChatCompletion makes the actual API call
func (c *Client) callChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("Chat completion succeeded",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// parseRecipeResponse extracts the recipe JSON from the model's answer.
// Some models wrap the object in prose or markdown fences.
func parseRecipeResponse(response string) (*outbound.GeneratedRecipe, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var generated outbound.GeneratedRecipe
	if err := json.Unmarshal([]byte(response[start:end+1]), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse recipe JSON: %w", err)
	}

	return &generated, nil
}
