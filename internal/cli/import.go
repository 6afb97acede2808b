package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"team-quiz-service/internal/config"
	"team-quiz-service/internal/infra/file"
	"team-quiz-service/internal/infra/postgres"
)

// NewImportCmd stores a JSON question file in Postgres as a named set.
func NewImportCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON question set into Postgres (load it later as pg:<name>)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, name, args[0])
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the question set")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runImport(ctx context.Context, configPath, name, path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	questions, err := file.NewQuestionLoader().LoadQuestions(ctx, path)
	if err != nil {
		return err
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.SaveQuestionSet(ctx, db, name, questions); err != nil {
		return err
	}
	log.Printf("imported %d questions as pg:%s", len(questions), name)
	return nil
}
