package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/candidate"
	"github.com/sphynx-hq/sphynx/internal/logger"
)

const (
	PromptExit             = "Exit"
	PromptBack             = "back"
	PromptReportByLocation = "Report by location"
	PromptInspectCandidate = "Inspect a candidate"
	PromptCandidatesToFile = "Dump candidates to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByLocation, PromptInspectCandidate, PromptCandidatesToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run <requirement>",
	Short: "Search the directory and rank candidates for a hiring requirement",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("limit", "l", 0, "maximum number of candidates to enrich and score")
	runCmd.Flags().BoolP("no-interactive", "y", false, "print the ranking and exit without the action prompt")
	runCmd.Flags().StringP("history-file", "s", "", "file to persist search history. Default is unset.")

	viper.BindPFlag("history-file", runCmd.Flags().Lookup("history-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the sphynx", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	requirement := strings.TrimSpace(strings.Join(args, " "))
	if requirement == "" {
		logger.Fatal("a hiring requirement is required, e.g. 'senior Go developer from Berlin'")
	}

	limit, _ := cmd.Flags().GetInt("limit")

	gh := newDirectory(config, logger)
	scorer := newScorer(ctx, config.AI, logger)
	store := newHistoryStore(viper.GetString("history-file"))

	pipe := newPipeline(config, gh, scorer, store, logger, limit)

	logger.Info("starting the search", zap.String("requirement", requirement))

	candidates, err := pipe.Search(ctx, requirement)
	if err != nil {
		logger.Fatal("searching candidates", zap.Error(err))
	}

	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	renderRanking(candidates)

	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, candidates); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, candidates *candidate.Candidates) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByLocation:
		pretty, _ := json.MarshalIndent(candidates.ReportByLocation(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", candidates.Len()))
		return nil
	case PromptInspectCandidate:
		return inspectCandidate(candidates)
	case PromptCandidatesToFile:
		filename, err := candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func inspectCandidate(candidates *candidate.Candidates) error {
	for {
		items := make([]string, 0, candidates.Len()+1)
		for _, c := range candidates.Items {
			items = append(items, fmt.Sprintf("%s %d/100 / %s / %s",
				c.Login, c.Score, c.DisplayLocation(), c.ProfileURL,
			))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		login := strings.Split(selected, " ")[0]
		chosen := candidates.FindByLogin(login)
		if chosen == nil {
			return fmt.Errorf("there is no such candidate login %s", login)
		}

		pretty, err := json.MarshalIndent(chosen, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
	}
}

func renderRanking(candidates *candidate.Candidates) {
	for i, c := range candidates.Items {
		languages := strings.Join(c.TopLanguages(3), ", ")
		if languages == "" {
			languages = "(no languages detected)"
		}

		fmt.Printf("%2d. %s (%s) score %d/100\n", i+1, c.DisplayName(), c.Login, c.Score)
		fmt.Printf("    location:  %s\n", c.DisplayLocation())
		fmt.Printf("    languages: %s\n", languages)
		fmt.Printf("    bio:       %s\n", c.DisplayBio())
		fmt.Printf("    why:       %s\n", c.Explanation)
		fmt.Printf("    url:       %s\n", c.ProfileURL)
	}
}
