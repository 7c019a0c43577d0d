// Command simulate_game plays a scripted session end to end: an LLM player
// against the narration engine, with real hydration, merging and saves.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/minhvu/taleforge/internal/config"
	"github.com/minhvu/taleforge/internal/engine"
	"github.com/minhvu/taleforge/internal/session"
	"github.com/minhvu/taleforge/internal/store"
)

const maxTurns = 10

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir, err := os.MkdirTemp("", "taleforge-sim")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "saves.db"))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	pool := engine.NewKeyPool(cfg.GeminiAPIKey, cfg.UserAPIKeys)
	gm, err := engine.NewEngine(ctx, pool)
	if err != nil {
		log.Fatalf("Failed to create GM engine: %v", err)
	}
	defer gm.Close()

	// The player is a second LLM.
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel("gemini-2.5-flash")

	sess := session.New(st)

	fmt.Println("--- Step 1: Generating world ---")
	ws, gs, err := gm.GenerateWorld(ctx, "a wandering swordsman in a haunted mountain pass")
	if err != nil {
		log.Fatalf("Failed to generate world: %v", err)
	}
	if err := sess.CreateWorld(ctx, gs, ws); err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}
	fmt.Printf("Title: %s\n", sess.GameState.Title)
	if len(sess.GameState.Turns) > 0 {
		fmt.Printf("Opening: %s\n\n", sess.GameState.Turns[0].Story)
	}

	for turn := 1; turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d ---\n", turn)

		action := getPlayerAction(ctx, playerModel, sess)
		fmt.Printf("Player: %s\n", action)

		update, err := gm.ProcessTurn(ctx, sess.GameState, sess.WorldSettings, action)
		if err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			break
		}
		if err := sess.ApplyTurn(update); err != nil {
			fmt.Printf("Error applying turn: %v\n", err)
			break
		}
		if err := sess.SaveGame(ctx); err != nil {
			fmt.Printf("Error saving: %v\n", err)
		}

		fmt.Printf("GM: %s\n", update.Story)
		for _, msg := range update.Messages {
			fmt.Printf("* %s\n", msg)
		}
		inv := sess.GameState.Character.Inventory
		fmt.Printf("Money=%d Items=%d Quests=%d Tokens=%d\n\n",
			inv.Money, len(inv.Items), len(sess.GameState.Quests), sess.GameState.TotalTokenCount)
	}

	saves, err := sess.ListSaves(ctx)
	if err != nil {
		log.Fatalf("Failed to list saves: %v", err)
	}
	fmt.Printf("Store holds %d save(s); history depth in memory: %d\n",
		len(saves), len(sess.GameState.History))
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, sess *session.Session) string {
	var history strings.Builder
	for _, t := range sess.GameState.Turns {
		if t.ChosenAction != "" {
			fmt.Fprintf(&history, "Action: %s\n", t.ChosenAction)
		}
		fmt.Fprintf(&history, "Story: %s\n", t.Story)
	}

	prompt := fmt.Sprintf(`You are playing a text-based role-playing game.
Premise: %s

History:
%s

What is your next action? Be creative but stay within the world's logic. Return ONLY the action string, no extra commentary.`,
		sess.WorldSettings.Idea,
		history.String(),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "look around"
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "look around"
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}
