package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ListRuns prints the IDs of the recorded runs, one per line.
func ListRuns(ctx context.Context, opts RunOptions, w io.Writer) error {
	store, closeStore, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return fmt.Errorf("no store configured (use --store)")
	}

	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

// ShowRun prints a recorded run: its steps, or the whole run as JSON.
func ShowRun(ctx context.Context, opts RunOptions, id string, w io.Writer) error {
	store, closeStore, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return fmt.Errorf("no store configured (use --store)")
	}

	run, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	fmt.Fprintf(w, "Run %s (model '%s', %s)\n", run.ID, run.Model, run.Generator)
	for _, step := range run.Steps {
		fmt.Fprintln(w, step.Label)
		if opts.States {
			fmt.Fprintln(w, step.State)
		}
	}
	fmt.Fprintln(w, run.Statistics)
	return nil
}

// DeleteRun removes a recorded run.
func DeleteRun(ctx context.Context, opts RunOptions, id string) error {
	store, closeStore, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return fmt.Errorf("no store configured (use --store)")
	}
	return store.Delete(ctx, id)
}
