package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/services"
)

const (
	commandDone   = "/done"
	promptNoJob   = "No job description"
	promptFinish  = "Finish and evaluate"
	promptDiscard = "Quit without saving"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a screening interview in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInterview(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("candidate", "c", "", "candidate name")
	interviewCmd.Flags().String("job-id", "", "catalog job description id")
	interviewCmd.Flags().String("resume-id", "", "catalog resume profile id")
	interviewCmd.Flags().StringSlice("categories", nil, "question categories (derived from the job when empty)")
	interviewCmd.Flags().Int("per-category", 0, "questions per category")
	interviewCmd.Flags().String("time-limit", "", "interview time limit, e.g. 15m")
	interviewCmd.Flags().String("transcript-dir", "", "directory for transcript and analysis files")

	for _, name := range []string{"candidate", "job-id", "resume-id", "categories", "per-category", "time-limit", "transcript-dir"} {
		viper.BindPFlag(name, interviewCmd.Flags().Lookup(name))
	}
}

func runInterview(ctx context.Context) error {
	log := newLogger()
	defer log.Sync()

	cliConfig, err := getConfig()
	if err != nil {
		return err
	}

	b, err := connect(ctx, cliConfig, log)
	if err != nil {
		log.Error("❌ Failed to connect services", zap.Error(err))
		return err
	}

	req, err := planRequest(cliConfig, b.catalog)
	if err != nil {
		return err
	}

	sessionCfg, err := sessionConfig(cliConfig, b)
	if err != nil {
		return err
	}

	perCategory := cliConfig.PerCategory
	if perCategory <= 0 {
		perCategory = b.cfg.Interview.QuestionsPerCategory
	}
	req.PerCategory = perCategory

	planner := services.NewRetrievalPlanner(services.NewQuestionIndex(b.gemini, b.qdrant, b.catalog), perCategory, log)
	interviewer := services.NewLLMInterviewer(b.gemini, log)

	transcriptDir := cliConfig.TranscriptDir
	if transcriptDir == "" {
		transcriptDir = b.cfg.Storage.TranscriptDir
	}
	sink := services.NewFileSink(transcriptDir)

	session := interview.NewSession(uuid.New(), req.CandidateName, sessionCfg)
	if err := session.Plan(ctx, planner, req); err != nil {
		log.Error("❌ Interview planning failed", zap.Error(err))
		return err
	}
	printed := say(session, 0)

	for session.State() == interview.StateInProgress {
		answer, err := (&promptui.Prompt{Label: "Your answer (" + commandDone + " to finish)"}).Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || strings.TrimSpace(answer) == commandDone {
			session.Conclude(interview.ReasonManual)
			break
		}
		if err != nil {
			return err
		}

		if _, err := session.RecordAnswer(ctx, answer, interviewer); err != nil {
			if session.State() != interview.StateInProgress {
				fmt.Println("⏰ Time is up.")
				break
			}
			if errors.Is(err, interview.ErrEmptyAnswer) {
				continue
			}
			fmt.Printf("⚠️  %v, please answer again.\n", err)
			continue
		}
		printed = say(session, printed)
	}

	for {
		assessment, err := session.Finalize(ctx, interviewer, sink)
		printed = say(session, printed)
		if err == nil {
			fmt.Printf("\n📋 Assessment\n\n%s\n\n", assessment)
			fmt.Printf("📁 %s\n📁 %s\n", sink.TranscriptPath(session.ID().String()), sink.AnalysisPath(session.ID().String()))
			return nil
		}

		log.Warn("❌ Finalization failed", zap.Error(err))
		choice := promptui.Select{Label: "Finalization failed", Items: []string{promptFinish, promptDiscard}}
		if _, picked, err := choice.Run(); err != nil || picked == promptDiscard {
			return fmt.Errorf("interview %s was not saved", session.ID())
		}
	}
}

// say prints interviewer lines appended since the from-th entry and returns the new count.
func say(session *interview.Session, from int) int {
	transcript := session.Transcript()
	for _, e := range transcript[from:] {
		if e.Speaker == interview.SpeakerInterviewer {
			fmt.Printf("\n🎙️  %s\n", e.Message)
		}
	}
	return len(transcript)
}

func planRequest(cliConfig *CLIConfig, cat *catalog.Catalog) (interview.PlanRequest, error) {
	req := interview.PlanRequest{
		CandidateName: cliConfig.Candidate,
		Categories:    cliConfig.Categories,
	}

	if cliConfig.ResumeID != "" {
		profile, ok := cat.Resume(cliConfig.ResumeID)
		if !ok {
			return req, fmt.Errorf("resume profile %q not found", cliConfig.ResumeID)
		}
		req.ResumeText = profile.Text()
		if req.CandidateName == "" {
			req.CandidateName = profile.Name
		}
	}

	jobID := cliConfig.JobID
	if jobID == "" && len(cat.Jobs()) > 0 {
		picked, err := pickJob(cat)
		if err != nil {
			return req, err
		}
		jobID = picked
	}
	if jobID != "" {
		job, ok := cat.Job(jobID)
		if !ok {
			return req, fmt.Errorf("job description %q not found", jobID)
		}
		req.JobDescription = job.Text()
	}

	if req.CandidateName == "" {
		name, err := (&promptui.Prompt{Label: "Candidate name"}).Run()
		if err != nil {
			return req, err
		}
		req.CandidateName = strings.TrimSpace(name)
	}
	if req.CandidateName == "" {
		return req, errors.New("candidate name is required")
	}
	return req, nil
}

func pickJob(cat *catalog.Catalog) (string, error) {
	jobs := cat.Jobs()
	items := []string{promptNoJob}
	for _, j := range jobs {
		items = append(items, fmt.Sprintf("%s (%s)", j.Title, j.Company))
	}

	prompt := promptui.Select{Label: "Job description", Items: items}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if idx == 0 {
		return "", nil
	}
	return jobs[idx-1].ID, nil
}

func sessionConfig(cliConfig *CLIConfig, b *backends) (interview.Config, error) {
	cfg := interview.Config{
		Policy: interview.FollowUpPolicy{
			MinAnswerWords:     b.cfg.Interview.FollowUpMinWords,
			MinKeywordCoverage: b.cfg.Interview.FollowUpMinCoverage,
		},
		TimeLimit: b.cfg.Interview.TimeLimit,
	}
	if cliConfig.TimeLimit != "" {
		d, err := time.ParseDuration(cliConfig.TimeLimit)
		if err != nil {
			return cfg, fmt.Errorf("invalid time limit %q: %w", cliConfig.TimeLimit, err)
		}
		cfg.TimeLimit = d
	}
	return cfg, nil
}
