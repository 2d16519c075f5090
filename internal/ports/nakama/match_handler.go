package nakama

import (
	"context"
	"database/sql"

	"memorymatch/internal/app"
	"memorymatch/internal/config"
	"memorymatch/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	PlayerID string           `json:"player_id"` // user id of the only player, empty until someone joins
	Player   runtime.Presence `json:"-"`

	Config config.GameConfig `json:"config"`
	App    *app.Service      `json:"-"`
	Game   *domain.Game      `json:"-"` // nil until the first start request

	Tick        int64 `json:"tick"`
	CreatedTick int64 `json:"created_tick"` // first loop tick, -1 before the first loop

	// Pending resolution. ResolveAtTick is zero when nothing is scheduled.
	ResolveAtTick     int64  `json:"resolve_at_tick"`
	ResolveGeneration uint64 `json:"resolve_generation"`
}

// HasPendingResolution reports whether a deferred resolution is scheduled.
func (ms *MatchState) HasPendingResolution() bool {
	return ms.ResolveAtTick != 0
}

func (ms *MatchState) clearPendingResolution() {
	ms.ResolveAtTick = 0
	ms.ResolveGeneration = 0
}

func (ms *MatchState) labelState() string {
	switch {
	case ms.Game == nil:
		return labelStateWaiting
	case ms.Game.Phase == domain.PhaseCompleted:
		return labelStateCompleted
	default:
		return labelStatePlaying
	}
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig(GameConfigPath); err != nil && !config.IsNotFound(err) {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	cfg := matchConfig(ctx, logger, params)
	state := &MatchState{
		Config:      cfg,
		App:         app.NewService(nil),
		CreatedTick: -1,
	}

	label, err := encodeLabel(true, labelStateWaiting)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, cfg.TickRate, label
}

// matchConfig layers runtime env and match params over the process config.
func matchConfig(ctx context.Context, logger runtime.Logger, params map[string]interface{}) config.GameConfig {
	cfg := config.GetGameConfig()

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		overlaid, err := config.FromRuntimeEnv(cfg, env)
		if err != nil {
			logger.Warn("MatchInit: Ignoring runtime env config: %v", err)
		} else {
			cfg = *overlaid
		}
	}

	if pairs, ok := paramInt(params, "pair_count"); ok {
		candidate := cfg
		candidate.PairCount = pairs
		if err := candidate.Validate(); err != nil {
			logger.Warn("MatchInit: Ignoring pair_count param %d: %v", pairs, err)
		} else {
			cfg = candidate
		}
	}
	return cfg
}

func paramInt(params map[string]interface{}, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// One player per match; the same user may come back on a new session.
	// The seat is reserved here because all attempts in a batch run before MatchJoin.
	if matchState.PlayerID != "" && matchState.PlayerID != presence.GetUserId() {
		return state, false, "match_full"
	}
	matchState.PlayerID = presence.GetUserId()
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.PlayerID != "" && matchState.PlayerID != p.GetUserId() {
			logger.Warn("MatchJoin: User %s joined but the player seat is taken by %s, kicking.", p.GetUserId(), matchState.PlayerID)
			if err := dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
				logger.Error("MatchJoin: Failed to kick %s: %v", p.GetUserId(), err)
			}
			continue
		}
		matchState.PlayerID = p.GetUserId()
		matchState.Player = p
		logger.Debug("MatchJoin: User %s is the player.", p.GetUserId())
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave ends the match when the player leaves; any pending resolution is dropped with it.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() != matchState.PlayerID {
			continue
		}
		if matchState.Player != nil && matchState.Player.GetSessionId() != p.GetSessionId() {
			// An older session left after the player rejoined.
			continue
		}
		matchState.clearPendingResolution()
		logger.Info("MatchLeave: Player %s left, terminating match.", p.GetUserId())
		return nil
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	if matchState.CreatedTick < 0 {
		matchState.CreatedTick = tick
	}
	matchState.Tick = tick

	if matchState.Player == nil && tick-matchState.CreatedTick >= int64(emptyMatchTimeoutSeconds*matchState.Config.TickRate) {
		logger.Info("MatchLoop: No player joined within %d seconds, terminating match.", emptyMatchTimeoutSeconds)
		return nil
	}

	// A due resolution runs before new taps so they see the unlocked board.
	if matchState.HasPendingResolution() && tick >= matchState.ResolveAtTick {
		mh.resolvePending(matchState, dispatcher, logger)
	}

	for _, msg := range messages {
		if msg.GetUserId() != matchState.PlayerID {
			logger.Warn("MatchLoop: Ignoring opcode %d from non-player %s", msg.GetOpCode(), msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, false)
		case OpRequestNewGame:
			mh.handleStartGame(matchState, dispatcher, logger, true)
		case OpFlipCard:
			mh.handleFlipCard(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

// handleStartGame deals a new deck. Without force it only starts when no
// game is in progress.
func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, force bool) {
	if !force && state.Game != nil && state.Game.Phase == domain.PhasePlaying {
		logger.Debug("StartGame: Game %s already in progress, ignoring.", state.Game.ID)
		return
	}

	game, events, err := state.App.StartGame(state.Config.PairCount)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}

	// Drop any resolution scheduled for the previous deck.
	state.clearPendingResolution()
	state.Game = game

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game %s started with %d pairs.", game.ID, state.Config.PairCount)
}

func (mh *matchHandler) handleFlipCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		logger.Warn("handleFlipCard: Game not started.")
		return
	}

	index, err := decodeFlipRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleFlipCard: Invalid flip request from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.FlipCard(state.Game, index)
	if err != nil {
		if app.IsIgnoredTap(err) {
			logger.Debug("handleFlipCard: Tap on card %d ignored: %v", index, err)
		} else {
			logger.Warn("handleFlipCard: Flip of card %d failed: %v", index, err)
		}
		return
	}

	for _, ev := range events {
		if p, ok := ev.Payload.(app.CardFlippedPayload); ok && p.Locked {
			state.ResolveAtTick = state.Tick + state.Config.DelayTicks()
			state.ResolveGeneration = p.Generation
			logger.Debug("handleFlipCard: Resolution %d scheduled for tick %d (current %d)", p.Generation, state.ResolveAtTick, state.Tick)
		}
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) resolvePending(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	generation := state.ResolveGeneration
	state.clearPendingResolution()

	events, err := state.App.ResolveSelection(state.Game, generation)
	if err != nil {
		logger.Warn("resolvePending: Dropping resolution %d: %v", generation, err)
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	if state.Game.Phase == domain.PhaseCompleted {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// broadcastEvent converts an app event into a client message.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var fields map[string]any

	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		opCode = OpGameStarted
		fields = map[string]any{
			"game_id":    p.GameID,
			"pair_count": p.PairCount,
			"columns":    state.Config.Columns,
			"cards":      cardViewsToList(p.Cards),
		}
	case app.CardFlippedPayload:
		opCode = OpCardFlipped
		fields = map[string]any{
			"index":     p.Index,
			"pair_id":   p.PairID,
			"selection": p.Selection.String(),
			"locked":    p.Locked,
		}
	case app.PairMatchedPayload:
		opCode = OpPairMatched
		fields = map[string]any{
			"first":   p.First,
			"second":  p.Second,
			"pair_id": p.PairID,
			"matches": p.Matches,
		}
	case app.PairMismatchedPayload:
		opCode = OpPairMismatched
		fields = map[string]any{
			"first":  p.First,
			"second": p.Second,
		}
	case app.GameCompletedPayload:
		opCode = OpGameCompleted
		fields = map[string]any{
			"game_id": p.GameID,
			"moves":   p.Moves,
			"matches": p.Matches,
		}
		logger.Info("Event: game %s completed in %d moves.", p.GameID, p.Moves)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := encodeJSON(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

// broadcastSnapshot sends the full visible board, used when the player (re)joins.
func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	fields := map[string]any{
		"state":   state.labelState(),
		"columns": state.Config.Columns,
	}
	if g := state.Game; g != nil {
		fields["game_id"] = g.ID
		fields["pair_count"] = g.PairCount()
		fields["selection"] = g.Selection().String()
		fields["locked"] = g.Selection() == domain.SelectionAwaitingResolution
		fields["moves"] = g.Moves
		fields["matches"] = g.Matches
		fields["cards"] = cardViewsToList(domain.BuildCardViews(g))
	}

	bytes, err := encodeJSON(fields)
	if err != nil {
		logger.Error("broadcastSnapshot: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpBoardSnapshot, bytes, nil, nil, true); err != nil {
		logger.Error("broadcastSnapshot: Failed to broadcast: %v", err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(state.PlayerID == "", state.labelState())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// MatchTerminate drops any pending resolution so nothing fires for a gone match.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		matchState.clearPendingResolution()
	}
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
