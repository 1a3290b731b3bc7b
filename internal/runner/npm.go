package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"merngen/internal/errs"
)

// NPMInstaller installs packages with npm.
type NPMInstaller struct {
	Runner CommandRunner
	Binary string    // defaults to "npm"
	Output io.Writer // optional live output
}

func NewNPMInstaller(r CommandRunner, out io.Writer) *NPMInstaller {
	return &NPMInstaller{Runner: r, Binary: "npm", Output: out}
}

func (n *NPMInstaller) bin() string {
	if n.Binary == "" {
		return "npm"
	}
	return n.Binary
}

// Init writes a default package.json into dir with `npm init -y`.
func (n *NPMInstaller) Init(ctx context.Context, dir string) error {
	return n.run(ctx, dir, []string{"init", "-y"}, nil)
}

// Install installs pkgs into dir, as dev dependencies when dev is set.
// An empty package list is a no-op.
func (n *NPMInstaller) Install(ctx context.Context, dir string, pkgs []string, dev bool) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := []string{"install"}
	if dev {
		args = append(args, "-D")
	}
	args = append(args, pkgs...)
	return n.run(ctx, dir, args, n.Output)
}

func (n *NPMInstaller) run(ctx context.Context, dir string, args []string, out io.Writer) error {
	cmdline := n.bin() + " " + strings.Join(args, " ")
	res, err := n.Runner.Run(ctx, n.bin(), args, RunOpts{Dir: dir, Output: out})
	if err != nil {
		return errs.Wrap(errs.EInstall, cmdline, err)
	}
	if res.ExitCode != 0 {
		return errs.New(errs.EInstall, fmt.Sprintf("%s: exit %d: %s", cmdline, res.ExitCode, tail(res)))
	}
	return nil
}
