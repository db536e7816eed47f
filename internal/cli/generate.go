package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/casegen/internal/ui"
	"github.com/Makepad-fr/casegen/internal/view"
)

type generateOptions struct {
	story        string
	storyFile    string
	criteria     string
	criteriaFile string

	asJSON bool
	copy   bool
	export bool
	width  int

	project string
	parent  string
}

func newGenerateCmd(a *app) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases without the interactive view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.story, "story", "s", "", "user story text")
	f.StringVar(&o.storyFile, "story-file", "", "read the user story from a file (- for stdin)")
	f.StringVarP(&o.criteria, "criteria", "c", "", "acceptance criteria text")
	f.StringVar(&o.criteriaFile, "criteria-file", "", "read acceptance criteria from a file (- for stdin)")
	f.BoolVar(&o.asJSON, "json", false, "print the test cases as JSON")
	f.BoolVar(&o.copy, "copy", false, "copy the test cases to the clipboard as an Excel table")
	f.BoolVar(&o.export, "export", false, "save the test cases to Jira")
	f.StringVar(&o.project, "project", "", "Jira project key (default from config)")
	f.StringVar(&o.parent, "parent", "", "Jira parent issue key; cases become sub-tasks")
	f.IntVar(&o.width, "width", 0, "card width (default terminal width)")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, o *generateOptions) error {
	if o.storyFile == "-" && o.criteriaFile == "-" {
		return usagef("only one of --story-file and --criteria-file can read stdin")
	}
	story, err := readText("story", o.story, o.storyFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	criteria, err := readText("criteria", o.criteria, o.criteriaFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	s := a.newView()
	s.UserStory = story
	s.AcceptanceCriteria = criteria
	if err := s.Generate(ctx); err != nil {
		if errors.Is(err, view.ErrEmptyStory) {
			return usagef("%s", s.Error())
		}
		return errors.New(s.Error())
	}

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.Cases()); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	} else {
		width := o.width
		if width <= 0 {
			width = ui.TermWidth()
		}
		fmt.Fprintln(out, ui.Cards(s.Cases(), width))
	}

	if o.copy {
		if _, err := s.Copy(); err != nil {
			return errors.New(s.Error())
		}
		if s.Copied() {
			ui.OK(errOut, fmt.Sprintf("copied %d test cases to the clipboard", s.Len()))
		}
	}

	if o.export {
		if o.project != "" {
			s.ProjectKey = o.project
		}
		s.ParentKey = o.parent
		switch err := s.Export(ctx); {
		case errors.Is(err, view.ErrNothingToExport):
			fmt.Fprintln(errOut, ui.Current().Muted.Render("nothing to export"))
		case err != nil:
			return errors.New(s.Error())
		default:
			ui.OK(errOut, s.Success())
		}
	}
	return nil
}

// readText returns value, or the content of file when one is given.
func readText(name, value, file string, stdin io.Reader) (string, error) {
	if file == "" {
		return value, nil
	}
	if value != "" {
		return "", usagef("--%s and --%s-file are mutually exclusive", name, name)
	}
	var (
		b   []byte
		err error
	)
	if file == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
