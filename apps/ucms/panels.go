package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/shell"
)

const deniedText = "Only admins can do that."

// open guards the session and mounts v, which loads it.
func (cli *commandLine) open(ctx context.Context, v shell.View) error {
	if err := cli.enter(ctx); err != nil {
		return err
	}
	return cli.shell.Open(ctx, v)
}

// save opens p's form (edit when id is set), applies the flags to the draft
// and submits it.
func save[R panel.Record, D any, O any](ctx context.Context, cli *commandLine, p *panel.Panel[R, D, O], id int, apply func(d *D)) error {
	if err := cli.open(ctx, p); err != nil {
		return err
	}
	var err error
	if id > 0 {
		err = p.OpenEdit(id)
	} else {
		err = p.OpenCreate()
	}
	switch {
	case errors.Cause(err) == core.ErrPermissionDenied:
		cli.notifier.Notify(panel.Failure, deniedText)
		return err
	case errors.Cause(err) == panel.ErrNotListed:
		cli.notifier.Notify(panel.Failure, fmt.Sprintf("No record #%d", id))
		return err
	case err != nil:
		return err
	}
	if err := p.UpdateDraft(apply); err != nil {
		return err
	}
	return p.Submit(ctx)
}

// remove deletes id from p after confirmation, unless yes is set.
func remove[R panel.Record, D any, O any](ctx context.Context, cli *commandLine, p *panel.Panel[R, D, O], id int, yes bool) error {
	if err := cli.open(ctx, p); err != nil {
		return err
	}
	err := p.Delete(ctx, id, func() bool {
		return yes || confirmFunc(cli.in, cli.out, fmt.Sprintf("Delete #%d?", id))
	})
	if errors.Cause(err) == core.ErrPermissionDenied {
		cli.notifier.Notify(panel.Failure, deniedText)
	}
	return err
}

func (cli *commandLine) table(header []string, rows [][]string) {
	tbl := tablewriter.NewWriter(cli.out)
	tbl.SetHeader(header)
	tbl.SetAutoWrapText(false)
	tbl.SetBorder(false)
	tbl.AppendBulk(rows)
	tbl.Render()
}

// attachment checks that path is a readable file and returns its upload name
// and opener.
func attachment(path string) (string, gateway.Opener, error) {
	open := gateway.FileAt(path)
	f, err := open()
	if err != nil {
		return "", nil, err
	}
	f.Close()
	return filepath.Base(path), open, nil
}
