package nakama

const (
	// RpcCreateMatch is the Nakama RPC id clients call to open a new solo match.
	RpcCreateMatch = "create_match"

	// MatchNameMemory is the authoritative match handler name registered with Nakama.
	MatchNameMemory = "memorymatch_match"

	// LabelGame is the game name advertised in match labels.
	LabelGame = "memorymatch"

	// GameConfigPath is read once per process when the first match starts.
	GameConfigPath = "data/game_config.json"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpFlipCard       int64 = 2 // {"index": n}
	OpRequestNewGame int64 = 3

	// Server -> Client events
	OpBoardSnapshot  int64 = 100
	OpGameStarted    int64 = 101
	OpCardFlipped    int64 = 102
	OpPairMatched    int64 = 103
	OpPairMismatched int64 = 104
	OpGameCompleted  int64 = 105
)

// Label states.
const (
	labelStateWaiting   = "waiting"
	labelStatePlaying   = "playing"
	labelStateCompleted = "completed"
)

// emptyMatchTimeoutSeconds bounds how long a created match may wait for its player.
const emptyMatchTimeoutSeconds = 30
