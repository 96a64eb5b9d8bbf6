package main

import (
	"os"

	"devcoach/internal/helpers"
	"devcoach/internal/services"

	"github.com/spf13/cobra"
)

func main() {
	workflow := services.New(".")

	var rootCmd = &cobra.Command{
		Use:   "devcoach",
		Short: "devcoach - AI-assisted sprint planning for local development",
		Long: `devcoach turns natural-language requirements into tracked stories,
plans them into sprints with velocity accounting, and mediates calls to a
locally hosted LLM (Ollama) for coding assistance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var initName string
	var initDescription string
	var initCmd = &cobra.Command{
		Use:   "init [name]",
		Short: "Initialize a devcoach project in the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := initName
			if len(args) == 1 {
				name = args[0]
			}
			return workflow.Init(name, initDescription)
		},
	}
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "", "Project description")
	rootCmd.AddCommand(initCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show project status, resolved LLM config and connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Status()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "add-requirement <text>",
		Short: "Analyze a natural-language requirement with the LLM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.AddRequirement(args[0])
		},
	})

	var storyTitle string
	var storyDescription string
	var addStoryCmd = &cobra.Command{
		Use:   "add-story",
		Short: "Add a user story to the backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.AddStory(storyTitle, storyDescription)
		},
	}
	addStoryCmd.Flags().StringVarP(&storyTitle, "title", "t", "", "Story title (required)")
	addStoryCmd.Flags().StringVarP(&storyDescription, "description", "d", "", "Story description")
	addStoryCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(addStoryCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-backlog",
		Short: "List stories not yet done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.ListBacklog()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-stories",
		Short: "List all stories grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.ListStories()
		},
	})

	var sprintGoal string
	var sprintDays int
	var planSprintCmd = &cobra.Command{
		Use:   "plan-sprint",
		Short: "Plan a new draft sprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.PlanSprint(sprintGoal, sprintDays)
		},
	}
	planSprintCmd.Flags().StringVarP(&sprintGoal, "goal", "g", "", "Sprint goal (required)")
	planSprintCmd.Flags().IntVarP(&sprintDays, "days", "n", 14, "Sprint duration in days")
	planSprintCmd.MarkFlagRequired("goal")
	rootCmd.AddCommand(planSprintCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "assign-story <story-id> <sprint-id>",
		Short: "Assign a story to a sprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.AssignStory(args[0], args[1])
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "start-sprint <id>",
		Short: "Activate a draft sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.StartSprint(args[0])
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "complete-sprint <id>",
		Short: "Complete the active sprint and freeze its velocity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.CompleteSprint(args[0])
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show-sprint",
		Short: "Show the current sprint and its backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.ShowSprint()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "start-task <id>",
		Short: "Start working on a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.StartTask(args[0])
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "assist-task <id>",
		Short: "Get LLM assistance for a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.AssistTask(args[0])
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "complete-task <id>",
		Short: "Mark a story as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.CompleteTask(args[0])
		},
	})

	var cyclePrompt string
	var llmCycleCmd = &cobra.Command{
		Use:   "llm-cycle",
		Short: "Send a custom prompt (or prompt file) to the LLM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.LLMCycle(cyclePrompt)
		},
	}
	llmCycleCmd.Flags().StringVarP(&cyclePrompt, "prompt", "p", "", "Prompt text or file path (required)")
	llmCycleCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(llmCycleCmd)

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("%v", err)
		os.Exit(1)
	}
}
