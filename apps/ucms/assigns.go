package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/malindutharaka300/ucms-f/core/assignment"
)

func (cli *commandLine) assignsCmd() *cobra.Command {
	return group("assigns", "Manage course assignments",
		cli.assignListCmd(),
		cli.assignSaveCmd("create", "Assign a course to a student"),
		cli.assignSaveCmd("update ID", "Update an assignment"),
		cli.assignDeleteCmd(),
	)
}

func (cli *commandLine) assignListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := assignment.NewPanel(cli.panelDeps())
			if err := cli.open(cmd.Context(), p); err != nil {
				return err
			}
			items := p.Items()
			rows := make([][]string, 0, len(items))
			for _, a := range items {
				date := a.Date
				if date == "" {
					date = "-"
				}
				rows = append(rows, []string{strconv.Itoa(a.ID), a.CourseName(), a.StudentName(), date})
			}
			cli.table([]string{"ID", "Course", "Student", "Date"}, rows)
			return nil
		},
	}
}

func (cli *commandLine) assignSaveCmd(use, short string) *cobra.Command {
	var courseID, studentID int
	var date string
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
			p := assignment.NewPanel(cli.panelDeps())
			return save(cmd.Context(), cli, p, id, func(d *assignment.Draft) {
				flags := cmd.Flags()
				if flags.Changed("course") {
					d.CourseID = courseID
				}
				if flags.Changed("student") {
					d.UserID = studentID
				}
				if flags.Changed("date") {
					d.Date = date
				}
			})
		},
	}
	if editing {
		cmd.Args = cobra.ExactArgs(1)
	}
	cmd.Flags().IntVar(&courseID, "course", 0, "course id")
	cmd.Flags().IntVar(&studentID, "student", 0, "student id")
	cmd.Flags().StringVar(&date, "date", "", "assignment date, YYYY-MM-DD")
	return cmd
}

func (cli *commandLine) assignDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return remove(cmd.Context(), cli, assignment.NewPanel(cli.panelDeps()), id, yes)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask for confirmation")
	return cmd
}
