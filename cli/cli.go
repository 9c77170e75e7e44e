// Package cli wires the compiler-and-engine pipeline into a cobra
// command: parse, resolve names, lower to compiled form, check
// connectivity and link orientation, then dispatch every request's
// commands to the matching exploration engine and serialize the
// results per §6.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/viant/fsanet/checker"
	"github.com/viant/fsanet/compiler"
	"github.com/viant/fsanet/engine/diagnosis"
	"github.com/viant/fsanet/engine/fullspace"
	"github.com/viant/fsanet/engine/linspace"
	"github.com/viant/fsanet/ident"
	"github.com/viant/fsanet/lang"
	"github.com/viant/fsanet/logging"
	"github.com/viant/fsanet/netstate"
	"github.com/viant/fsanet/regex"
	"github.com/viant/fsanet/result"
	"github.com/viant/fsanet/timer"
)

var (
	prettyFlag    bool
	fullFlag      bool
	timeLimitFlag uint64
	logLevelFlag  string
)

// NewRootCmd builds the fsanet root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fsanet [input] [output]",
		Short: "Compile a finite-state automata network and run its analysis requests",
		Long: `fsanet reads a source text describing one or more automata networks and
a set of analysis requests, then emits for each request the full reachable
state space, the observation-indexed subspace, or a fault diagnosis regex.`,
		Args: cobra.MaximumNArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetLevel(logLevelFlag)
		},
		RunE: run,
	}

	root.Flags().BoolVarP(&prettyFlag, "pretty", "p", false, "pretty-print the result JSON")
	root.Flags().BoolVarP(&fullFlag, "full", "f", false, "disable reachable-to-final pruning of full-space output")
	root.Flags().Uint64VarP(&timeLimitFlag, "time-limit", "t", 0, "engine wall-clock budget in microseconds (0 = unbounded)")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")

	return root
}

// Execute runs the fsanet command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func run(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd.Context(), args)
	if err != nil {
		logging.Errorf("driver: reading input failed: %v", err)
		return fmt.Errorf("reading input: %w", err)
	}
	logging.Infof("driver: read %d bytes of source", len(data))

	src, err := lang.Parse(data)
	if err != nil {
		logging.Errorf("driver: parse failed: %v", err)
		return fmt.Errorf("parse error: %w", err)
	}

	tbl, err := ident.Collect(src)
	if err != nil {
		return fmt.Errorf("name resolution error: %w", err)
	}

	networks, requests, err := compiler.Compile(src, tbl)
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	if err := checkAll(networks); err != nil {
		return err
	}

	byName := make(map[string]*netstate.Network, len(networks))
	for _, n := range networks {
		byName[n.Name] = n
	}

	budget := timer.NewBudget(timeLimitFlag)
	ctx := cmd.Context()

	docs := make([]result.NetworkResult, 0, len(requests))
	for _, req := range requests {
		net, ok := byName[req.Network]
		if !ok {
			docs = append(docs, result.NetworkResult{
				Name:    req.Name,
				Exports: []result.ExportResult{result.Err(fmt.Sprintf("undefined network %q", req.Network))},
			})
			continue
		}
		docs = append(docs, result.NetworkResult{
			Name:    req.Name,
			Exports: runCommands(ctx, net, req.Commands, budget),
		})
	}

	out, err := result.EncodeJSON(docs, prettyFlag)
	if err != nil {
		logging.Errorf("driver: encoding result failed: %v", err)
		return fmt.Errorf("encoding result: %w", err)
	}

	if err := writeOutput(ctx, args, out); err != nil {
		logging.Errorf("driver: writing output failed: %v", err)
		return err
	}
	logging.Infof("driver: wrote result for %d requests", len(docs))
	return nil
}

// checkAll runs connectivity and link checking over every compiled
// network; per §4.10 these errors are fatal to the whole run.
func checkAll(networks []*netstate.Network) error {
	var msgs []string
	for _, n := range networks {
		for _, e := range checker.CheckConnectivity(n) {
			msgs = append(msgs, e.Error())
		}
		for _, e := range checker.CheckLinks(n) {
			msgs = append(msgs, e.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("semantic errors:\n%s", strings.Join(msgs, "\n"))
}

// runCommands dispatches every command of one request to its engine,
// isolating a single command's failure from its siblings.
func runCommands(ctx context.Context, net *netstate.Network, cmds []compiler.Command, budget timer.Budget) []result.ExportResult {
	exports := make([]result.ExportResult, 0, len(cmds))
	for _, c := range cmds {
		switch cc := c.(type) {
		case compiler.FullSpaceCmd:
			exports = append(exports, runFullSpace(net, budget))
		case compiler.LinspaceCmd:
			exports = append(exports, runLinspace(ctx, net, cc, budget))
		case compiler.DiagnosisCmd:
			exports = append(exports, runDiagnosis(ctx, net, cc, budget))
		default:
			exports = append(exports, result.Err("unknown request command"))
		}
	}
	return exports
}

func runFullSpace(net *netstate.Network, budget timer.Budget) result.ExportResult {
	tm := budget.New()
	res := fullspace.Explore(net, tm, !fullFlag)
	exp := result.ToFullSpaceExport(res.Graph, res.Complete)
	return result.Ok(result.Export{FullSpace: &exp})
}

func runLinspace(ctx context.Context, net *netstate.Network, cc compiler.LinspaceCmd, budget timer.Budget) result.ExportResult {
	tm := budget.New()
	res := linspace.Explore(net, cc.ObsLabels, tm)

	var savedTo *string
	if cc.SavePath != nil {
		if err := result.Save(ctx, *cc.SavePath, res.Graph); err != nil {
			return result.Err(fmt.Sprintf("saving linspace graph: %v", err))
		}
		savedTo = cc.SavePath
	}

	exp := result.ToLinSpaceExport(res.Graph, res.States, res.Complete, savedTo)
	return result.Ok(result.Export{LinSpace: &exp})
}

// runDiagnosis handles both the Fresh and Load forms §6 describes.
// Fresh runs diagnosis against the network's full reachable space (no
// observation sequence constrains it, only the relevance-label filter);
// Load reuses a previously persisted linspace graph instead of exploring
// one. Both share the RelLabels-driven relevance filter.
func runDiagnosis(ctx context.Context, net *netstate.Network, cc compiler.DiagnosisCmd, budget timer.Budget) result.ExportResult {
	relevant := make(map[int]bool, len(cc.RelLabels))
	for _, id := range cc.RelLabels {
		relevant[id] = true
	}

	tm := budget.New()
	var res diagnosis.Result
	if cc.LoadFile != nil {
		pg, err := result.Load(ctx, *cc.LoadFile)
		if err != nil {
			return result.Err(fmt.Sprintf("loading persisted graph: %v", err))
		}
		res = diagnosis.DiagnoseFromRelGraph(pg.ToGraph(), 0, relevant, tm)
	} else {
		fs := fullspace.Explore(net, tm, false)
		res = diagnosis.Diagnose(fs.Graph, 0, relevant, tm)
	}

	exp := result.DiagnosisExport{
		Regex:    regex.Render(res.Regex, net.RelLabelNames),
		Complete: res.Complete,
		Timeout:  res.Timeout,
	}
	return result.Ok(result.Export{Diagnosis: &exp})
}

// readInput reads the source text from the positional input path via
// afs, or from stdin if no path (or "-") was given.
func readInput(ctx context.Context, args []string) ([]byte, error) {
	if len(args) >= 1 && args[0] != "" && args[0] != "-" {
		return afs.New().DownloadWithURL(ctx, args[0])
	}
	return io.ReadAll(os.Stdin)
}

// writeOutput writes the result JSON to the positional output path via
// afs, or to stdout if no path (or "-") was given.
func writeOutput(ctx context.Context, args []string, data []byte) error {
	if len(args) >= 2 && args[1] != "" && args[1] != "-" {
		return afs.New().Upload(ctx, args[1], file.DefaultFileOsMode, bytes.NewReader(data))
	}
	_, err := os.Stdout.Write(data)
	return err
}
