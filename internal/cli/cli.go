// Package cli implements the finscore one-shot commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"FinScore/internal/domain/models"

	"github.com/google/subcommands"
)

// Engine is the scoring surface the commands drive.
type Engine interface {
	ScanMomentum(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error)
	ScoreFundamentals(ctx context.Context, req models.ScreenRequest) (*models.ScreenResponse, error)
	ComputeIndicators(ctx context.Context, req models.IndicatorsRequest) (*models.IndicatorsResult, error)
	ListUniverses() []models.Universe
}

// Loader builds the engine on first use. The returned func releases it.
type Loader func() (Engine, func(), error)

// Env is shared by every command.
type Env struct {
	Load   Loader
	Out    io.Writer
	Err    io.Writer
	Indent bool
}

// Commands returns every finscore command bound to env.
func Commands(env *Env) []subcommands.Command {
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if env.Err == nil {
		env.Err = os.Stderr
	}
	return []subcommands.Command{
		&scanCmd{env: env},
		&screenCmd{env: env},
		&indicatorsCmd{env: env},
		&universesCmd{env: env},
	}
}

// run loads the engine, calls fn and prints its result as JSON.
func (e *Env) run(fn func(Engine) (interface{}, error)) subcommands.ExitStatus {
	engine, release, err := e.Load()
	if err != nil {
		fmt.Fprintf(e.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer release()

	v, err := fn(engine)
	if err != nil {
		fmt.Fprintf(e.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(e.Out)
	if e.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(e.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
