package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/propkit/internal/cli/ui"
	"github.com/conduit-lang/propkit/internal/compiler/metadata"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand(flags *globalFlags) *cobra.Command {
	var (
		format    string
		container string
	)

	cmd := &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Show the property metadata of annotated types",
		Long: `Analyze annotated types and print the resulting property registries.

The text format prints one table per container. The json and yaml formats
print the full metadata report, including diagnostics, for tooling.`,
		Example: `  # Tables for every container
  propkit inspect

  # A single container
  propkit inspect --container Shape ./geom

  # Machine-readable report
  propkit inspect --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			defer p.logger.Sync()

			s := build.NewSystem(p.buildOptions(args))
			result, err := s.Check(cmd.Context())
			if err != nil {
				return err
			}

			report := s.Report(result)
			if container != "" {
				filtered, names := filterContainer(report, container)
				if filtered == nil {
					return fmt.Errorf("%s", ui.ContainerNotFoundError(container, ui.FindSimilar(container, names, nil), color.NoColor))
				}
				report = filtered
			}

			out := cmd.OutOrStdout()
			if format == "" || format == "text" {
				renderReport(out, report)
				return nil
			}

			f, err := metadata.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := metadata.Serialize(report, f)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&container, "container", "", "Only show the named container type")

	return cmd
}

// filterContainer narrows report to the container type named name. It
// returns nil and every container name when there is no match.
func filterContainer(report *metadata.Report, name string) (*metadata.Report, []string) {
	var names []string
	out := &metadata.Report{Version: report.Version}

	for _, pkg := range report.Packages {
		for _, file := range pkg.Files {
			for _, c := range file.Containers {
				names = append(names, c.Type)
				if c.Type != name {
					continue
				}
				fr := file
				fr.Containers = []metadata.ContainerMetadata{c}
				fr.Diagnostics = nil
				for _, d := range file.Diagnostics {
					if d.Type == name {
						fr.Diagnostics = append(fr.Diagnostics, d)
					}
				}
				out.Packages = append(out.Packages, metadata.PackageReport{
					Path:  pkg.Path,
					Name:  pkg.Name,
					Files: []metadata.FileReport{fr},
				})
			}
		}
	}

	if len(out.Packages) == 0 {
		return nil, names
	}
	return out, names
}

func renderReport(w io.Writer, report *metadata.Report) {
	count := 0
	for _, pkg := range report.Packages {
		for _, file := range pkg.Files {
			for _, c := range file.Containers {
				if count > 0 {
					fmt.Fprintln(w)
				}
				count++
				renderContainer(w, pkg.Path, file.Path, c)
			}
		}
	}

	if count == 0 {
		fmt.Fprint(w, ui.Info("No property containers found", color.NoColor))
	}
}

func renderContainer(w io.Writer, pkgPath, file string, c metadata.ContainerMetadata) {
	ui.Header(w, fmt.Sprintf("%s.%s", pkgPath, c.Type), color.NoColor)

	kv := ui.NewKeyValueTable(w, color.NoColor)
	kv.AddRow("File", fmt.Sprintf("%s:%d", file, c.Line))
	if !c.Emitted {
		kv.AddRow("Status", color.RedString("not emitted"))
		kv.Render()
		return
	}
	kv.AddRow("Id", c.ID)
	kv.AddRow("Properties", fmt.Sprint(len(c.Properties)))
	kv.Render()

	if len(c.Properties) == 0 {
		return
	}
	fmt.Fprintln(w)

	table := ui.NewTable(w, color.NoColor, "ID", "MEMBER", "SOURCE", "ACCESS", "KIND", "TYPE")
	for _, prop := range c.Properties {
		member := prop.Member
		if prop.MemberKind == "method" {
			member += "()"
		}
		table.AddRow(prop.ID, member, prop.Source, prop.Access, prop.Kind, strings.TrimSpace(prop.Type))
	}
	table.Render()
}
