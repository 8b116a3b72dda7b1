package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malindutharaka300/ucms-f/core/result"
)

func (cli *commandLine) resultsCmd() *cobra.Command {
	return group("results", "Manage test results",
		cli.resultListCmd(),
		cli.resultShowCmd(),
		cli.resultSaveCmd("create", "Record a result"),
		cli.resultSaveCmd("update ID", "Update a result"),
		cli.resultDeleteCmd(),
	)
}

func (cli *commandLine) resultListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := result.NewPanel(cli.panelDeps())
			if err := cli.open(cmd.Context(), p); err != nil {
				return err
			}
			items := p.Items()
			rows := make([][]string, 0, len(items))
			for _, r := range items {
				rows = append(rows, []string{strconv.Itoa(r.ID), r.CourseName(), r.StudentName(), strconv.Itoa(r.TestNo), r.Grade})
			}
			cli.table([]string{"ID", "Course", "Student", "Test", "Grade"}, rows)
			return nil
		},
	}
}

func (cli *commandLine) resultShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := cli.enter(cmd.Context()); err != nil {
				return err
			}
			r, err := result.NewPanel(cli.panelDeps()).Show(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Course:  %s\nStudent: %s\nTest:    %d\nGrade:   %s\n", r.CourseName(), r.StudentName(), r.TestNo, r.Grade)
			return nil
		},
	}
}

func validGrade(grade string) bool {
	for _, g := range result.Grades {
		if g == grade {
			return true
		}
	}
	return false
}

func (cli *commandLine) resultSaveCmd(use, short string) *cobra.Command {
	var courseID, studentID, testNo int
	var grade string
	editing := use != "create"
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int
			if editing {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}
			grade = strings.ToUpper(strings.TrimSpace(grade))
			if cmd.Flags().Changed("grade") && !validGrade(grade) {
				return errors.Errorf("grade must be one of %s", strings.Join(result.Grades, " "))
			}
			p := result.NewPanel(cli.panelDeps())
			return save(cmd.Context(), cli, p, id, func(d *result.Draft) {
				flags := cmd.Flags()
				if flags.Changed("course") {
					d.CourseID = courseID
				}
				if flags.Changed("student") {
					d.UserID = studentID
				}
				if flags.Changed("test") {
					d.TestNo = testNo
				}
				if flags.Changed("grade") {
					d.Grade = grade
				}
			})
		},
	}
	if editing {
		cmd.Args = cobra.ExactArgs(1)
	}
	cmd.Flags().IntVar(&courseID, "course", 0, "course id")
	cmd.Flags().IntVar(&studentID, "student", 0, "student id")
	cmd.Flags().IntVar(&testNo, "test", 0, "test number")
	cmd.Flags().StringVar(&grade, "grade", "", "one of A+ A B+ B C+ C D F")
	return cmd
}

func (cli *commandLine) resultDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return remove(cmd.Context(), cli, result.NewPanel(cli.panelDeps()), id, yes)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask for confirmation")
	return cmd
}
