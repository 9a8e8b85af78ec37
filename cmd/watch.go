package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/grovetools/textpatch/pkg/patch"
	"github.com/grovetools/textpatch/pkg/watcher"
	"github.com/grovetools/textpatch/pkg/writer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch [patch...]",
		Short: "Watch patch targets and report status changes",
		Long: `Watches the target file of each selected patch and re-inspects it after
every change. A log line is emitted whenever a patch moves between pending,
applied and missing, so drift between the manifest and the tree shows up as
soon as it happens.

The watcher only reads files; it never applies patches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patches, err := loadPatches(args)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cmd, patches, time.Duration(debounceMs)*time.Millisecond)
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 100, "Debounce interval in milliseconds")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, patches []patch.Patch, debounce time.Duration) error {
	w, err := watcher.New()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	byName := make(map[string]patch.Patch, len(patches))
	for _, p := range patches {
		if err := w.AddTarget(p.Target, p.Name); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p.Target, err)
		}
		byName[p.Name] = p
	}

	applier := patch.NewApplier(writer.NewDryRun(), getLogger())

	last := make(map[string]patch.Status)
	inspect := func(name string) {
		p := byName[name]
		status, err := applier.Inspect(ctx, p)
		if err != nil {
			log.WithFields(logrus.Fields{"patch": name, "target": p.Target}).WithError(err).Warn("Inspect failed")
			return
		}

		prev, seen := last[name]
		last[name] = status
		if seen && prev == status {
			return
		}

		writeStatus(cmd.OutOrStdout(), name, status)
		entry := log.WithFields(logrus.Fields{"patch": name, "status": status})
		if seen {
			entry = entry.WithField("previous", prev)
		}
		if status == patch.StatusMissing {
			entry.Warn("Patch markers missing from target")
		} else {
			entry.Debug("Patch status changed")
		}
	}

	for _, p := range patches {
		inspect(p.Name)
	}
	log.WithField("targets", len(w.Targets())).Info("Watching patch targets")

	// Debounce state. The timer only signals; inspection runs in this loop.
	pending := make(map[string]bool)
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-fire:
			for name := range pending {
				inspect(name)
			}
			pending = make(map[string]bool)

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watcher.IsContentEvent(event) {
				continue
			}
			names := w.PatchesFor(event.Name)
			if len(names) == 0 {
				continue
			}

			for _, name := range names {
				pending[name] = true
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Error("Watcher error")
		}
	}
}
