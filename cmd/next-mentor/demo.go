package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/chat"
	"github.com/ashwinyue/next-mentor/internal/service/persona"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	var (
		mentorID    string
		personaName string
		studentID   string
		list        bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Load a built-in persona demo conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				printPersonas(out)
				return nil
			}

			_, log, db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer db.Close()

			repos := repository.NewRepositories(db.DB)
			demo, err := chat.NewService(repos.Chat, log).LoadDemo(cmd.Context(), mentorID, &chat.LoadDemoRequest{
				Persona:   personaName,
				StudentID: studentID,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Session %s (mentor %s, student %s)\n", demo.Session.ID, demo.Session.MentorID, demo.Session.StudentID)
			for _, m := range demo.Messages {
				fmt.Fprintf(out, "  %d %s: %s\n", m.Seq, m.SenderType, m.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mentorID, "mentor", "m", "mentor_001", "mentor id that owns the demo session")
	cmd.Flags().StringVarP(&personaName, "persona", "p", persona.Encouraging, "persona name")
	cmd.Flags().StringVar(&studentID, "student", chat.DemoStudentID, "student id")
	cmd.Flags().BoolVar(&list, "list", false, "list available personas")
	return cmd
}

func printPersonas(out io.Writer) {
	for _, name := range persona.Names() {
		fmt.Fprintln(out, name)
	}
}
