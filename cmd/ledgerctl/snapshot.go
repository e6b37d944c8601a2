package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	appledger "github.com/finledger/backend/internal/application/ledger"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// fileLoader serves one snapshot decoded from a JSON file or stdin ("-")
type fileLoader struct {
	path string
	in   io.Reader
}

func (l fileLoader) Load(context.Context) (*reconcile.Snapshot, error) {
	if l.path == "" {
		return nil, errors.New("a snapshot file is required (-snapshot)")
	}
	r := l.in
	if l.path != "-" {
		f, err := os.Open(l.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var snap reconcile.Snapshot
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", l.path, err)
	}
	return &snap, nil
}

// readOnly refuses every commit; ledgerctl never writes
type readOnly struct{}

func (readOnly) Execute(context.Context, *reconcile.Plan) error {
	return shared.NewInvalidState("ledgerctl is read-only")
}

func newService(snapshotPath string) *appledger.Service {
	return appledger.NewService(fileLoader{path: snapshotPath, in: os.Stdin}, readOnly{}, appledger.DefaultConfig(), zap.NewNop())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
