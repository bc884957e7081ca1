package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amechi-aduba/drawVSAI-react/internal/app"
	"github.com/amechi-aduba/drawVSAI-react/internal/classifier"
	"github.com/amechi-aduba/drawVSAI-react/internal/config"
	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
	"github.com/amechi-aduba/drawVSAI-react/internal/game"
	"github.com/amechi-aduba/drawVSAI-react/internal/server"
	"github.com/amechi-aduba/drawVSAI-react/internal/store"
)

// TestE2E_CompleteRound walks one full round of the game: seed the
// store, draw with a pointer gesture, let the classifier recognize the
// sketch, and confirm the score, the canvas clear and the next round.
func TestE2E_CompleteRound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	categories := []string{"apple", "house", "star"}
	if err := s.Categories().Seed(categories); err != nil {
		t.Fatalf("seed error = %v", err)
	}
	labels, err := s.Categories().Labels()
	if err != nil {
		t.Fatalf("labels error = %v", err)
	}

	model := classifier.NewMock(len(labels))

	p := config.Defaults()
	// Disable probability smoothing so a single confident prediction
	// wins, and keep the scheduler quick for the test.
	p.EMAFactor = -1
	p.QuietPeriod = 30 * time.Millisecond
	p.DrawInterval = 10 * time.Millisecond
	p.RestartDelay = 50 * time.Millisecond

	application, err := app.New(app.Config{
		Store:      s,
		Params:     p,
		Model:      model,
		Categories: labels,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()
	application.SetDetector(detector.NewMockDetector())

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	t.Run("CategoriesServed", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/categories")
		if err != nil {
			t.Fatalf("list categories error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var body struct {
			Categories []struct {
				Label string `json:"label"`
			} `json:"categories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(body.Categories) != 3 {
			t.Fatalf("got %d categories, want 3", len(body.Categories))
		}
	})

	t.Run("FixedTargetRound", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/game/reset",
			"application/json",
			strings.NewReader(`{"target": "star"}`),
		)
		if err != nil {
			t.Fatalf("reset error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var snap game.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if snap.Target != "star" {
			t.Fatalf("target = %q, want %q", snap.Target, "star")
		}
	})

	firstRound := application.Engine().Snapshot().RoundID

	t.Run("DrawAndScore", func(t *testing.T) {
		// The model is sure the sketch is a star.
		model.SetProbs(classifier.Peaked(len(labels), 2, 0.9))

		// Draw a diagonal stroke across the canvas.
		cv := application.Canvas()
		for i := 100; i < 400; i += 4 {
			cv.StrokeTo(float64(i), float64(i))
		}
		cv.PenUp()

		if err := application.Engine().Tick(cv.Snapshot()); err != nil {
			t.Fatalf("tick error = %v", err)
		}

		snap := application.Engine().Snapshot()
		if snap.Guess != "star" {
			t.Errorf("guess = %q, want %q", snap.Guess, "star")
		}
		if !snap.Won {
			t.Error("expected the round to be won")
		}
		if snap.Score != 1 {
			t.Errorf("score = %d, want 1", snap.Score)
		}
	})

	t.Run("CanvasClearedOnWin", func(t *testing.T) {
		img := application.Canvas().Snapshot()
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if img.RGBAAt(x, y).A != 0 {
					t.Fatalf("ink left at (%d,%d) after the win", x, y)
				}
			}
		}
	})

	t.Run("NextRoundStarts", func(t *testing.T) {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if application.Engine().Snapshot().RoundID != firstRound {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Error("no new round after the restart delay")
	})

	t.Run("ScoreSurvivesRestart", func(t *testing.T) {
		if got := application.Engine().Snapshot().Score; got != 1 {
			t.Errorf("score = %d, want 1", got)
		}
	})
}
