package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	GameID          string            `json:"game_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           []string          `json:"board"`
	NextPlayer      string            `json:"next_player"`
	Status          string            `json:"status"`
	Outcome         OutcomeDTO        `json:"outcome"`
	InCheck         bool              `json:"in_check"`
	AiThinking      bool              `json:"ai_thinking"`
	History         []historyEntryDTO `json:"history"`
	CapturedByWhite []string          `json:"captured_by_white"`
	CapturedByBlack []string          `json:"captured_by_black"`
	HalfmoveClock   int               `json:"halfmove_clock"`
	FullmoveNumber  int               `json:"fullmove_number"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode       string `json:"mode"`
	HumanColor string `json:"human_color"`
	Difficulty string `json:"difficulty"`
	AiSeed     int64  `json:"ai_seed"`
}

type OutcomeDTO struct {
	Kind   string `json:"kind"`
	Winner string `json:"winner,omitempty"`
}

type historyEntryDTO struct {
	Move      string  `json:"move"`
	Notation  string  `json:"notation"`
	Player    string  `json:"player"`
	Captured  string  `json:"captured,omitempty"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	GameID          string            `json:"game_id"`
	Board           []string          `json:"board"`
	NextPlayer      string            `json:"next_player"`
	Status          string            `json:"status"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type moveRequest struct {
	Move string `json:"move"`
}

type movesResponse struct {
	Moves []string `json:"moves"`
}

func main() {
	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if controller.Tick() {
					if entry, ok := controller.LatestHistoryEntry(); ok {
						hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
					}
					hub.broadcastStatus <- controllerStatus(controller)
				}
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings, err := settingsFromDTO(payload.Settings, DefaultGameSettings())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		settings := controller.Settings()
		controller.Reset(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload moveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		move, err := ParseMove(payload.Move)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := controller.SubmitMove(move); err != nil {
			writeJSON(w, moveErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		if entry, ok := controller.LatestHistoryEntry(); ok {
			hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/moves", func(w http.ResponseWriter, r *http.Request) {
		fromRaw := r.URL.Query().Get("from")
		var moves []Move
		if fromRaw == "" {
			moves = controller.LegalMoves()
		} else {
			from, err := ParseSquare(fromRaw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			moves = controller.LegalMovesFrom(from)
		}
		out := make([]string, 0, len(moves))
		for _, move := range moves {
			out = append(out, move.String())
		}
		writeJSON(w, http.StatusOK, movesResponse{Moves: out})
	})

	r.Post("/api/resign", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Color string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		color, err := colorFromString(payload.Color)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := controller.Resign(color); err != nil {
			writeJSON(w, moveErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
		}
		if payload.Settings != nil {
			settings, err := settingsFromDTO(*payload.Settings, controller.Settings())
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			controller.Reset(settings)
		}
		hub.broadcastSettings <- settingsPayload{
			Settings: settingsToDTO(controller.Settings()),
			Config:   GetConfig(),
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	status := controllerStatus(controller)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			status := controllerStatus(controller)
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})
		}
	}
}

// moveErrorStatus maps game errors onto HTTP statuses: malformed and
// illegal input is the client's fault, state conflicts are 409.
func moveErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrIllegalMove), errors.Is(err, ErrMalformedMove):
		return http.StatusBadRequest
	case errors.Is(err, ErrGameNotRunning), errors.Is(err, ErrNotYourTurn):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	return StatusResponse{
		GameID:          controller.GameID(),
		Settings:        settingsToDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToRows(state.Board),
		NextPlayer:      colorToString(state.ToMove),
		Status:          statusToString(state.Status),
		Outcome:         outcomeToDTO(state.Outcome),
		InCheck:         controller.InCheck(),
		AiThinking:      controller.AiThinking(),
		History:         historyToDTO(controller.History()),
		CapturedByWhite: piecesToCodes(state.CapturedByWhite),
		CapturedByBlack: piecesToCodes(state.CapturedByBlack),
		HalfmoveClock:   state.HalfmoveClock,
		FullmoveNumber:  state.FullmoveNumber,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) (GameSettings, error) {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.WhiteType = PlayerAI
		settings.BlackType = PlayerAI
	case "human_vs_human":
		settings.WhiteType = PlayerHuman
		settings.BlackType = PlayerHuman
	case "human_vs_ai", "":
		if dto.HumanColor == "black" {
			settings.WhiteType = PlayerAI
			settings.BlackType = PlayerHuman
		} else {
			settings.WhiteType = PlayerHuman
			settings.BlackType = PlayerAI
		}
	default:
		return settings, errors.New("unknown mode " + dto.Mode)
	}
	difficulty, err := ParseDifficulty(dto.Difficulty)
	if err != nil {
		return settings, err
	}
	settings.Difficulty = difficulty
	if dto.AiSeed != 0 {
		settings.AiSeed = dto.AiSeed
	} else {
		settings.AiSeed = time.Now().UnixNano()
	}
	return settings, nil
}

func settingsToDTO(settings GameSettings) GameSettingsDTO {
	mode := "human_vs_ai"
	humanColor := ""
	switch {
	case settings.WhiteType == PlayerAI && settings.BlackType == PlayerAI:
		mode = "ai_vs_ai"
	case settings.WhiteType == PlayerHuman && settings.BlackType == PlayerHuman:
		mode = "human_vs_human"
	case settings.WhiteType == PlayerHuman:
		humanColor = "white"
	default:
		humanColor = "black"
	}
	return GameSettingsDTO{
		Mode:       mode,
		HumanColor: humanColor,
		Difficulty: settings.Difficulty.String(),
		AiSeed:     settings.AiSeed,
	}
}

// boardToRows renders the board as 8 strings of two-character piece codes,
// rank 8 first, matching the fixture format BoardFromStrings reads.
func boardToRows(board Board) []string {
	rows := make([]string, 0, 8)
	for y := 7; y >= 0; y-- {
		row := make([]byte, 0, 24)
		for x := 0; x < 8; x++ {
			if x > 0 {
				row = append(row, ' ')
			}
			piece := board.At(Sq(x, y))
			if piece.IsEmpty() {
				row = append(row, '.', '.')
			} else {
				row = append(row, piece.Code()...)
			}
		}
		rows = append(rows, string(row))
	}
	return rows
}

func piecesToCodes(pieces []Piece) []string {
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		out = append(out, piece.Code())
	}
	return out
}

func colorToString(color Color) string {
	if color == ColorWhite {
		return "white"
	}
	return "black"
}

func colorFromString(raw string) (Color, error) {
	switch raw {
	case "white":
		return ColorWhite, nil
	case "black":
		return ColorBlack, nil
	}
	return ColorWhite, errors.New("unknown color " + raw)
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusWhiteWon:
		return "white_won"
	case StatusBlackWon:
		return "black_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func outcomeToDTO(outcome Outcome) OutcomeDTO {
	dto := OutcomeDTO{Kind: outcome.Kind.String()}
	if outcome.Kind == OutcomeCheckmate || outcome.Kind == OutcomeResignation {
		dto.Winner = colorToString(outcome.Winner)
	}
	return dto
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Move:      entry.Move.String(),
		Notation:  entry.Notation,
		Player:    colorToString(entry.Player),
		Captured:  entry.Captured.Code(),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		GameID:          controller.GameID(),
		Board:           boardToRows(state.Board),
		NextPlayer:      colorToString(state.ToMove),
		Status:          statusToString(state.Status),
		History:         historyToDTO(controller.History()),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
