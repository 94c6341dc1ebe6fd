package cli

import (
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index knowledge documents from the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mgr, err := buildKnowledge(ctx, cfg)
			if err != nil {
				return err
			}
			defer mgr.Close()

			ingested, removed, err := mgr.Sync(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("ingested %d document(s), removed %d\n", ingested, removed)

			if list {
				records, err := mgr.Documents(ctx)
				if err != nil {
					return err
				}
				for _, rec := range records {
					cmd.Printf("%-8s %4d chunks  %s\n", rec.Status, rec.ChunkCount, rec.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list indexed documents after ingesting")
	return cmd
}
