package engine

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/minhvu/taleforge/internal/models"
)

//go:embed prompts/generate_world.txt
var generateWorldPrompt string

//go:embed prompts/process_turn.txt
var processTurnPrompt string

//go:embed prompts/summarize_turns.txt
var summarizeTurnsPrompt string

const modelName = "gemini-2.5-flash"

// Turns older than this get folded into a summary to keep prompts small.
const summarizeAfter = 8

// keepVerbatim is how many recent turns stay verbatim after summarization.
const keepVerbatim = 3

// Engine talks to Gemini: it generates worlds, narrates turns and
// summarizes old history. It owns no game state; narrated updates are
// returned as models.TurnUpdate for the session to merge.
type Engine struct {
	pool      *KeyPool
	client    *genai.Client
	jsonModel *genai.GenerativeModel
	textModel *genai.GenerativeModel
}

// NewEngine connects with the first key from the pool.
func NewEngine(ctx context.Context, pool *KeyPool) (*Engine, error) {
	e := &Engine{pool: pool}
	if err := e.connect(ctx, pool.Next()); err != nil {
		return nil, err
	}
	return e, nil
}

// Close releases the underlying client.
func (e *Engine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// RotateKey reconnects with the next key in the pool.
func (e *Engine) RotateKey(ctx context.Context) error {
	return e.connect(ctx, e.pool.Next())
}

func (e *Engine) connect(ctx context.Context, apiKey string) error {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("create genai client: %w", err)
	}

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.ResponseMIMEType = "application/json"
	textModel := client.GenerativeModel(modelName)

	if e.client != nil {
		e.client.Close()
	}
	e.client = client
	e.jsonModel = jsonModel
	e.textModel = textModel
	return nil
}

// GenerateWorld asks the model to author a full world plus opening scene
// from a free-form hint. The result still goes through hydration before it
// becomes the live game.
func (e *Engine) GenerateWorld(ctx context.Context, hint string) (models.WorldSettings, models.GameState, error) {
	tmpl, err := template.New("generate_world").Parse(generateWorldPrompt)
	if err != nil {
		return models.WorldSettings{}, models.GameState{}, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Hint string }{Hint: hint}); err != nil {
		return models.WorldSettings{}, models.GameState{}, err
	}

	text, tokens, err := e.generate(ctx, true, buf.String())
	if err != nil {
		return models.WorldSettings{}, models.GameState{}, err
	}

	var result struct {
		WorldSettings models.WorldSettings `json:"worldSettings"`
		GameState     models.GameState     `json:"gameState"`
	}
	clean := stripFence(text)
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return models.WorldSettings{}, models.GameState{}, fmt.Errorf("parse world JSON: %w\noutput was: %s", err, clean)
	}

	result.GameState.TotalTokenCount = tokens
	if len(result.GameState.Turns) > 0 {
		result.GameState.Turns[0].TokenCount = tokens
	}
	return result.WorldSettings, result.GameState, nil
}

// ProcessTurn narrates one player action. The returned update carries the
// story plus every declared state delta; nothing is applied here.
func (e *Engine) ProcessTurn(ctx context.Context, gs *models.GameState, ws models.WorldSettings, action string) (models.TurnUpdate, error) {
	if len(gs.Turns) > summarizeAfter {
		if err := e.SummarizeTurns(ctx, gs); err != nil {
			// Narration still works with the full history, just costs more.
			log.Warn().Err(err).Msg("Failed to summarize history")
		}
	}

	prompt, err := buildTurnPrompt(gs, ws, action)
	if err != nil {
		return models.TurnUpdate{}, err
	}

	text, tokens, err := e.generate(ctx, true, prompt)
	if err != nil {
		return models.TurnUpdate{}, err
	}

	var update models.TurnUpdate
	clean := stripFence(text)
	if err := json.Unmarshal([]byte(clean), &update); err != nil {
		return models.TurnUpdate{}, fmt.Errorf("parse turn JSON: %w\noutput was: %s", err, clean)
	}

	update.ChosenAction = action
	update.TokenCount = tokens
	return update, nil
}

// SummarizeTurns folds everything but the most recent turns into a summary
// stored on the last summarized turn. The prompt builder stops walking
// history once it reaches a summarized turn.
func (e *Engine) SummarizeTurns(ctx context.Context, gs *models.GameState) error {
	if len(gs.Turns) <= keepVerbatim {
		return nil
	}
	cut := len(gs.Turns) - keepVerbatim
	if gs.Turns[cut-1].Summary != "" {
		return nil
	}

	var events strings.Builder
	for _, t := range gs.Turns[:cut] {
		if t.Summary != "" {
			fmt.Fprintf(&events, "Earlier summary: %s\n", t.Summary)
			continue
		}
		if t.ChosenAction != "" {
			fmt.Fprintf(&events, "Action: %s\n", t.ChosenAction)
		}
		fmt.Fprintf(&events, "Story: %s\n", t.Story)
	}

	tmpl, err := template.New("summarize_turns").Parse(summarizeTurnsPrompt)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Events string }{Events: events.String()}); err != nil {
		return err
	}

	text, _, err := e.generate(ctx, false, buf.String())
	if err != nil {
		return err
	}

	gs.Turns[cut-1].Summary = strings.TrimSpace(text)
	return nil
}

// generate runs one prompt, rotating through the key pool on failures.
func (e *Engine) generate(ctx context.Context, structured bool, prompt string) (string, int, error) {
	attempts := e.pool.Len()
	var lastErr error
	for i := 0; i < attempts; i++ {
		model := e.textModel
		if structured {
			model = e.jsonModel
		}
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", i+1).Msg("Narration request failed")
			if rerr := e.RotateKey(ctx); rerr != nil {
				return "", 0, rerr
			}
			continue
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", 0, fmt.Errorf("no content returned from Gemini")
		}
		text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
		if !ok {
			return "", 0, fmt.Errorf("unexpected response type from Gemini")
		}

		tokens := 0
		if resp.UsageMetadata != nil {
			tokens = int(resp.UsageMetadata.TotalTokenCount)
		}
		return string(text), tokens, nil
	}
	return "", 0, fmt.Errorf("all API keys failed: %w", lastErr)
}

// stripFence removes a markdown code fence around model output.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
