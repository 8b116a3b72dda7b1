package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/malindutharaka300/ucms-f/core/content"
	"github.com/malindutharaka300/ucms-f/core/gateway"
)

func (cli *commandLine) contentsCmd() *cobra.Command {
	var courseID int
	cmd := group("contents", "Manage the contents of a course",
		cli.contentListCmd(&courseID),
		cli.contentSaveCmd(&courseID, "create", "Add content to the course"),
		cli.contentSaveCmd(&courseID, "update ID", "Update a content"),
		cli.contentDeleteCmd(&courseID),
	)
	cmd.PersistentFlags().IntVar(&courseID, "course", 0, "course id")
	_ = cmd.MarkPersistentFlagRequired("course")
	return cmd
}

func (cli *commandLine) contentListCmd(courseID *int) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the contents of the course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := content.NewPanel(*courseID, cli.panelDeps())
			if err := cli.open(cmd.Context(), p); err != nil {
				return err
			}
			items := p.Items()
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				preview, ok := c.Thumbnail(cli.conf.AppURL)
				if !ok {
					preview = "[" + c.Type + "]"
				}
				rows = append(rows, []string{strconv.Itoa(c.ID), c.Title, c.Type, c.DisplayURL(cli.conf.AppURL), preview})
			}
			cli.table([]string{"ID", "Title", "Type", "URL", "Preview"}, rows)
			return nil
		},
	}
}

func (cli *commandLine) contentSaveCmd(courseID *int, use, short string) *cobra.Command {
	var title, path string
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
			var file gateway.Opener
			var fileName string
			if path != "" {
				var err error
				if fileName, file, err = attachment(path); err != nil {
					return err
				}
			}
			p := content.NewPanel(*courseID, cli.panelDeps())
			return save(cmd.Context(), cli, p, id, func(d *content.Draft) {
				if cmd.Flags().Changed("title") {
					d.Title = title
				}
				if file != nil {
					d.FileName, d.File = fileName, file
				}
			})
		},
	}
	if editing {
		cmd.Args = cobra.ExactArgs(1)
	}
	cmd.Flags().StringVar(&title, "title", "", "content title")
	cmd.Flags().StringVar(&path, "file", "", "path of the file to upload")
	return cmd
}

func (cli *commandLine) contentDeleteCmd(courseID *int) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return remove(cmd.Context(), cli, content.NewPanel(*courseID, cli.panelDeps()), id, yes)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask for confirmation")
	return cmd
}
