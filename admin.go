package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kidspeak/internal/database"
	"github.com/example/kidspeak/internal/excel"
	"github.com/example/kidspeak/internal/roster"
	"github.com/example/kidspeak/pkg/models"
)

func newImportWordsCommand() *cobra.Command {
	importCfg := excel.DefaultImportConfig()
	var defaultLevel string

	cmd := &cobra.Command{
		Use:   "import-words <file>",
		Short: "Import spelling words from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			importCfg.FilePath = args[0]
			importCfg.DefaultLevel = models.ParseDifficulty(defaultLevel)

			result, err := excel.ImportWords(cmd.Context(), importCfg, database.NewWordRepository(a.db))
			if err != nil {
				return err
			}
			for _, msg := range result.Errors {
				a.logger.Warn("row skipped", "reason", msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d rows, saved %d words, skipped %d\n",
				result.TotalProcessed, result.Saved, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&importCfg.WordColumn, "word-column", importCfg.WordColumn, "Column holding the word")
	cmd.Flags().StringVar(&importCfg.DifficultyColumn, "difficulty-column", importCfg.DifficultyColumn, "Column holding the difficulty, empty for none")
	cmd.Flags().StringVar(&importCfg.SheetName, "sheet", "", "Sheet to read, default is the first sheet")
	cmd.Flags().IntVar(&importCfg.StartRow, "start-row", importCfg.StartRow, "First row to import (1-based)")
	cmd.Flags().StringVar(&defaultLevel, "default-level", string(models.DifficultyEasy), "Difficulty for rows without one")
	return cmd
}

func newExportBoardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-board <file.xlsx>",
		Short: "Export the class board to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			engine, err := a.loadEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			board := roster.New(engine, nil, roster.WithLogger(a.logger)).ClassBoard()
			if err := excel.ExportBoard(board, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d students in %d classes to %s\n",
				board.TotalStudents, board.TotalClasses, args[0])
			return nil
		},
	}
}

func newAddEducatorCommand() *cobra.Command {
	var form roster.EducatorSignup

	cmd := &cobra.Command{
		Use:   "add-educator",
		Short: "Create an educator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			engine, err := a.loadEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			r := roster.New(engine, database.NewEducatorRepository(a.db), roster.WithLogger(a.logger))
			if err := r.Load(cmd.Context()); err != nil {
				return err
			}
			educator, err := r.SignUpEducator(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "educator %s created\n", educator.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "Username (6 characters)")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (6 characters)")
	cmd.Flags().StringVar(&form.Name, "name", "", "Display name")
	return cmd
}

func newAddLearnerCommand() *cobra.Command {
	var form roster.LearnerSignup

	cmd := &cobra.Command{
		Use:   "add-learner",
		Short: "Create a learner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			engine, err := a.loadEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			learner, err := roster.New(engine, nil, roster.WithLogger(a.logger)).SignUpLearner(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "learner %s (%s) created at level %d\n", learner.ID, learner.Name, learner.Level)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.ID, "id", "", "Learner id (3 digits)")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password")
	cmd.Flags().StringVar(&form.Name, "name", "", "Name")
	cmd.Flags().StringVar(&form.Class, "class", "", "Class")
	cmd.Flags().StringVar(&form.Division, "division", "", "Division")
	return cmd
}
