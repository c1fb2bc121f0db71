package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/keyzone/internal/input"
	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/session"
	"github.com/zjrosen/keyzone/internal/tracing"
)

var replayFollow bool

var replayCmd = &cobra.Command{
	Use:   "replay [file|-]",
	Short: "Feed a byte stream through the text zone and print the screen",
	Long: `Replay reads raw key codes from a file (or stdin when the file is "-"
or omitted), runs them through the cursor manager on an in-memory screen,
and prints the final screen followed by a stats line.

Examples:
  # Replay a capture
  keyzone replay keys.bin

  # Pipe text; newlines move to the next line
  printf 'hello\nworld' | keyzone replay

  # Treat ASCII backspace and DEL as the delete key
  keyzone replay --map-backspace session.txt

  # Keep reading as the file grows, until interrupted
  keyzone replay --follow /tmp/keys.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayFollow, "follow", "f", false,
		"keep reading the file as it grows until interrupted")
	replayCmd.Flags().Bool("map-backspace", false,
		"treat 0x08 and 0x7f as the delete key")

	_ = viper.BindPFlag("replay.map_backspace", replayCmd.Flags().Lookup("map-backspace"))
}

func runReplay(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	kb, err := cfg.KeyboardConfig()
	if err != nil {
		return err
	}

	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	if replayFollow && name == "-" {
		return errors.New("--follow needs a file")
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}()

	s, err := session.New(session.Options{Keyboard: kb, Tracer: provider.Tracer()})
	if err != nil {
		return err
	}

	opts := input.Options{Keys: kb.Keys, MapBackspace: cfg.Replay.MapBackspace}
	src, closer, err := openSource(cmd, name, opts)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := s.Run(ctx, name, src)
	if err != nil && !(replayFollow && errors.Is(err, context.Canceled)) {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = io.WriteString(out, s.Dump())
	_, _ = fmt.Fprintln(out, formatStats(stats))
	return nil
}

func openSource(cmd *cobra.Command, name string, opts input.Options) (input.Source, io.Closer, error) {
	if name == "-" {
		return input.NewReaderSource(cmd.InOrStdin(), opts), io.NopCloser(cmd.InOrStdin()), nil
	}
	if replayFollow {
		src, err := input.NewFollowSource(name, cfg.Replay.FollowDebounce, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("following %s: %w", name, err)
		}
		return src, src, nil
	}
	f, err := os.Open(name) // #nosec G304 -- user-selected input file
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return input.NewReaderSource(f, opts), f, nil
}

func formatStats(s session.Stats) string {
	return fmt.Sprintf("session=%s bytes=%d glyphs=%d newlines=%d deletes=%d clears=%d cursor=(%d,%d)",
		s.ID, s.Bytes, s.Glyphs, s.Newlines, s.Deletes, s.Clears, s.Cursor.X, s.Cursor.Y)
}
