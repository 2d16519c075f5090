package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateMatchResponse is the payload returned to clients after opening a match.
type CreateMatchResponse struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcCreateMatch, rpcCreateMatch)
}

// rpcCreateMatch opens a solo match. Payload (optional): {"pair_count": n}.
func rpcCreateMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	params := map[string]interface{}{}
	req, err := decodeJSON([]byte(payload))
	if err != nil {
		logger.Warn("rpcCreateMatch [User:%s]: Ignoring malformed payload: %v", userID, err)
	} else if pairs, ok := intField(req, "pair_count"); ok {
		params["pair_count"] = pairs
	}

	// Seat assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameMemory, params)
	if err != nil {
		logger.Error("rpcCreateMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	logger.Info("rpcCreateMatch [User:%s]: Created new match %s", userID, matchID)
	b, err := json.Marshal(CreateMatchResponse{MatchID: matchID})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
