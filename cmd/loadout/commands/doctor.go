package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/internal/doctor"
	"github.com/thoreinstein/loadout/internal/errors"
)

var (
	doctorJSON    bool
	doctorVerbose bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "show all checks including passed ones")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "verbose")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on loadout and the configured adapters.

Checks adapter detection, per-scope configuration file health, the session
state database, and loadout's own configuration.

Exit codes:
  0 - no errors (warnings may be present)
  2 - errors present`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runner := doctor.NewRunner()
	runner.AddCheck(&doctor.ConfigCheck{Config: loadedConfig})
	runner.AddCheck(&doctor.AdapterCheck{Registry: a.engine.Adapters()})
	runner.AddCheck(&doctor.ScopeReadCheck{Engine: a.engine})
	runner.AddCheck(&doctor.StateCheck{Path: loadedConfig.StatePath})

	report := runner.Run()

	if doctorJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding report")
		}
	} else {
		printDoctorReport(cmd, report)
	}

	if report.HasErrors() {
		return errors.NewSystemError(errors.New("diagnostic checks found errors"),
			"address the reported errors and run 'loadout doctor' again")
	}
	return nil
}

func printDoctorReport(cmd *cobra.Command, report *doctor.Report) {
	out := cmd.OutOrStdout()

	printed := false
	for _, result := range report.Results {
		if !doctorVerbose && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		printed = true
		fmt.Fprintf(out, "%s [%s] %s: %s\n",
			statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && result.Status >= doctor.SeverityWarning {
			fmt.Fprintf(out, "  hint: %s\n", result.FixHint)
		}
	}

	if printed {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
