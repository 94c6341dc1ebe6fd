package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skanderbz/tutord/internal/orchestrator"
	"github.com/skanderbz/tutord/internal/session"
)

func newAskCmd() *cobra.Command {
	var showEmotion bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the tutor a one-shot question from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			question := strings.Join(args, " ")

			mgr, err := buildKnowledge(ctx, cfg)
			if err != nil {
				return err
			}
			defer mgr.Close()
			if _, _, err := mgr.Sync(ctx); err != nil {
				log.Warn().Err(err).Msg("knowledge sync failed, retrieval may be stale")
			}

			store := session.NewStore(time.Hour, log)
			orch := orchestrator.New(store, buildCascade(ctx, cfg, mgr), log)

			reply := orch.Query(ctx, question)
			cmd.Println(reply.Text)
			if showEmotion {
				cmd.Printf("\n[%s via %s]\n", reply.Emotion, reply.Provider)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showEmotion, "emotion", false, "print the classified emotion and answering provider")
	return cmd
}
