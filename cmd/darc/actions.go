package main

import (
	"fmt"
	"io"
	"os"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/render"
	"github.com/spf13/cobra"
)

// actionCommands returns one command per analysis action
func actionCommands() []*cobra.Command {
	var cmds []*cobra.Command
	for _, spec := range analysis.Specs() {
		cmds = append(cmds, newActionCmd(spec))
	}
	return cmds
}

func newActionCmd(spec analysis.Spec) *cobra.Command {
	var (
		file     string
		language string
		output   string
	)

	cmd := &cobra.Command{
		Use:   string(spec.Action),
		Short: fmt.Sprintf("%s (POST %s, prints %s)", spec.Button, spec.Path, spec.Field),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := analysis.ParseLanguage(language)
			if err != nil {
				return err
			}
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}
			code, err := readCode(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			var client *analysis.Client
			stop, err := startApp(cmd.Context(), &client)
			if err != nil {
				return err
			}
			defer stop()

			result, err := client.Submit(cmd.Context(), spec.Action, analysis.Submission{Code: code, Language: lang})
			if err != nil {
				return err
			}

			out, err := render.As(format, spec.Kind, result.Value)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Source file to submit (- reads stdin)")
	cmd.Flags().StringVarP(&language, "language", "l", string(analysis.DefaultLanguage), "Source language (python, java, javascript, go, ruby, php)")
	cmd.Flags().StringVarP(&output, "output", "o", string(render.FormatText), "Output format (text, json, yaml)")
	return cmd
}

// readCode reads path, or stdin when path is empty or "-"
func readCode(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}
