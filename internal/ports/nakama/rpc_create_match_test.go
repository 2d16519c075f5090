package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

func TestRpcCreateMatch(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantParams map[string]interface{}
	}{
		{name: "empty payload", payload: "", wantParams: map[string]interface{}{}},
		{name: "pair count", payload: `{"pair_count": 8}`, wantParams: map[string]interface{}{"pair_count": 8}},
		{name: "fractional pair count dropped", payload: `{"pair_count": 2.5}`, wantParams: map[string]interface{}{}},
		{name: "malformed payload", payload: `{`, wantParams: map[string]interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nk := &fakeNakama{}
			out, err := rpcCreateMatch(context.Background(), noopLogger{}, nil, nk, tt.payload)
			if err != nil {
				t.Fatalf("rpcCreateMatch error: %v", err)
			}

			var resp CreateMatchResponse
			if err := json.Unmarshal([]byte(out), &resp); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if resp.MatchID != "match-1.node" {
				t.Fatalf("MatchID = %q", resp.MatchID)
			}
			if nk.createdModule != MatchNameMemory {
				t.Fatalf("created module %q, want %q", nk.createdModule, MatchNameMemory)
			}
			if len(nk.createdParams) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", nk.createdParams, tt.wantParams)
			}
			for k, v := range tt.wantParams {
				if nk.createdParams[k] != v {
					t.Fatalf("params[%s] = %v, want %v", k, nk.createdParams[k], v)
				}
			}
		})
	}
}

func TestRpcCreateMatchPropagatesError(t *testing.T) {
	nk := &fakeNakama{createErr: errors.New("no capacity")}
	if _, err := rpcCreateMatch(context.Background(), noopLogger{}, nil, nk, ""); err == nil {
		t.Fatalf("expected MatchCreate error to be returned")
	}
}

// recordingInitializer captures registrations made by InitModule.
type recordingInitializer struct {
	runtime.Initializer

	rpcs     []string
	matches  []string
	authHook bool
}

func (r *recordingInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	r.rpcs = append(r.rpcs, id)
	return nil
}

func (r *recordingInitializer) RegisterMatch(name string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error)) error {
	r.matches = append(r.matches, name)
	if _, err := fn(context.Background(), noopLogger{}, nil, nil); err != nil {
		return err
	}
	return nil
}

func (r *recordingInitializer) RegisterAfterAuthenticateDevice(fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error) error {
	r.authHook = true
	return nil
}

func TestInitModuleRegistersEverything(t *testing.T) {
	rec := &recordingInitializer{}
	if err := InitModule(context.Background(), noopLogger{}, nil, nil, rec); err != nil {
		t.Fatalf("InitModule error: %v", err)
	}
	if len(rec.rpcs) != 1 || rec.rpcs[0] != RpcCreateMatch {
		t.Fatalf("rpcs = %v", rec.rpcs)
	}
	if len(rec.matches) != 1 || rec.matches[0] != MatchNameMemory {
		t.Fatalf("matches = %v", rec.matches)
	}
	if !rec.authHook {
		t.Fatalf("AfterAuthenticateDevice hook not registered")
	}
}
