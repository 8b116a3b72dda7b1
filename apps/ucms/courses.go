package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/malindutharaka300/ucms-f/core/course"
	"github.com/malindutharaka300/ucms-f/core/gateway"
)

type courseFlags struct {
	name, code, image string
	status            int
}

func (f *courseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "course name")
	cmd.Flags().StringVar(&f.code, "code", "", "course code")
	cmd.Flags().IntVar(&f.status, "status", course.StatusActive, "1 active, 0 inactive")
	cmd.Flags().StringVar(&f.image, "image", "", "path of the course image")
}

// apply copies the flags given on the command line into d.
func (f *courseFlags) apply(cmd *cobra.Command, d *course.Draft, image gateway.Opener, imageName string) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		d.Name = f.name
	}
	if flags.Changed("code") {
		d.Code = f.code
	}
	if flags.Changed("status") {
		d.Status = f.status
	}
	if image != nil {
		d.ImageName, d.Image = imageName, image
	}
}

func (cli *commandLine) coursesCmd() *cobra.Command {
	return group("courses", "Manage courses",
		cli.courseListCmd(),
		cli.courseSaveCmd("create", "Create a course"),
		cli.courseSaveCmd("update ID", "Update a course"),
		cli.courseDeleteCmd(),
	)
}

func (cli *commandLine) courseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := course.NewPanel(cli.panelDeps())
			if err := cli.open(cmd.Context(), p); err != nil {
				return err
			}
			items := p.Items()
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, c.Code, c.StatusText(), c.ImageURL(cli.conf.AppURL)})
			}
			cli.table([]string{"ID", "Name", "Code", "Status", "Image"}, rows)
			return nil
		},
	}
}

func (cli *commandLine) courseSaveCmd(use, short string) *cobra.Command {
	var flags courseFlags
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
			var image gateway.Opener
			var imageName string
			if flags.image != "" {
				var err error
				if imageName, image, err = attachment(flags.image); err != nil {
					return err
				}
			}
			p := course.NewPanel(cli.panelDeps())
			return save(cmd.Context(), cli, p, id, func(d *course.Draft) {
				flags.apply(cmd, d, image, imageName)
			})
		},
	}
	if editing {
		cmd.Args = cobra.ExactArgs(1)
	}
	flags.bind(cmd)
	return cmd
}

func (cli *commandLine) courseDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return remove(cmd.Context(), cli, course.NewPanel(cli.panelDeps()), id, yes)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask for confirmation")
	return cmd
}
