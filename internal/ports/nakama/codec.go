package nakama

import (
	"errors"
	"fmt"
	"math"

	"memorymatch/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var errMissingIndex = errors.New("flip request missing integer index")

// encodeJSON renders fields as a JSON object through google.protobuf.Struct,
// the same encoding clients use for requests.
func encodeJSON(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return b, nil
}

// decodeJSON parses a client payload. An empty payload yields an empty struct.
func decodeJSON(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return s, nil
}

// intField reads an integral number field.
func intField(s *structpb.Struct, name string) (int, bool) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, false
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := num.NumberValue
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func decodeFlipRequest(data []byte) (int, error) {
	req, err := decodeJSON(data)
	if err != nil {
		return 0, err
	}
	index, ok := intField(req, "index")
	if !ok {
		return 0, errMissingIndex
	}
	return index, nil
}

func cardViewsToList(views []domain.CardView) []any {
	out := make([]any, len(views))
	for i, v := range views {
		card := map[string]any{
			"index": v.Index,
			"state": string(v.State),
		}
		if v.PairID != nil {
			card["pair_id"] = *v.PairID
		}
		out[i] = card
	}
	return out
}

func encodeLabel(open bool, state string) (string, error) {
	b, err := encodeJSON(map[string]any{
		"open":  open,
		"game":  LabelGame,
		"state": state,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
