package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/acq-directory/modules/directory/infrastructure/source"
	"github.com/iota-uz/acq-directory/modules/directory/services"
	"github.com/iota-uz/acq-directory/pkg/configuration"
	"github.com/iota-uz/acq-directory/pkg/logging"
)

type globalOptions struct {
	dataDir           string
	sourceURL         string
	personsFile       string
	relationshipsFile string
	deduplicate       bool
	inferMissionAreas bool
	strictEnums       bool
	timeout           time.Duration
	debounce          time.Duration
	logLevel          string

	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "directory",
		Short:         "Query the defense acquisition directory tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data-dir", "data", "Directory holding the CSV tables")
	flags.StringVar(&opts.sourceURL, "source-url", "", "Base URL to fetch the CSV tables from (overrides --data-dir)")
	flags.StringVar(&opts.personsFile, "persons-file", source.DefaultPersonsFile, "Primary table file name")
	flags.StringVar(&opts.relationshipsFile, "relationships-file", source.DefaultRelationshipsFile, "Relationship table file name")
	flags.BoolVar(&opts.deduplicate, "dedupe", false, "Drop repeated (name, position, organization) rows")
	flags.BoolVar(&opts.inferMissionAreas, "infer-mission-areas", false, "Fill blank mission areas from position and organization text")
	flags.BoolVar(&opts.strictEnums, "strict-enums", false, "Warn about unrecognized position types and statuses")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Load timeout")
	flags.DurationVar(&opts.debounce, "debounce", services.DefaultSearchDebounce, "Interactive search debounce")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: silent|error|warn|info|debug")

	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newFilterCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newHierarchyCmd(opts))
	cmd.AddCommand(newValuesCmd(opts))
	cmd.AddCommand(newRelationshipsCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

// resolve fills flags the user left unset from the environment configuration.
func (o *globalOptions) resolve(cmd *cobra.Command) error {
	conf, err := configuration.Load(".env", ".env.local")
	if err != nil {
		return withCode(exitValidation, err)
	}
	defer conf.Unload()

	flags := cmd.Flags()
	dir := conf.Directory
	if !flags.Changed("data-dir") && dir.DataDir != "" {
		o.dataDir = dir.DataDir
	}
	if !flags.Changed("source-url") {
		o.sourceURL = dir.SourceURL
	}
	if !flags.Changed("persons-file") && dir.PersonsFile != "" {
		o.personsFile = dir.PersonsFile
	}
	if !flags.Changed("relationships-file") && dir.RelationshipsFile != "" {
		o.relationshipsFile = dir.RelationshipsFile
	}
	if !flags.Changed("dedupe") {
		o.deduplicate = dir.Deduplicate
	}
	if !flags.Changed("infer-mission-areas") {
		o.inferMissionAreas = dir.InferMissionAreas
	}
	if !flags.Changed("strict-enums") {
		o.strictEnums = dir.StrictEnums
	}
	if !flags.Changed("timeout") && dir.LoadTimeout > 0 {
		o.timeout = dir.LoadTimeout
	}
	if !flags.Changed("debounce") && dir.SearchDebounce > 0 {
		o.debounce = dir.SearchDebounce
	}
	if o.logLevel != "" {
		conf.LogLevel = o.logLevel
	}

	o.logger = logging.ConsoleLogger(conf.LogrusLogLevel())
	o.logger.SetOutput(cmd.ErrOrStderr())
	return nil
}

func (o *globalOptions) newService() (*services.DirectoryService, error) {
	base, err := source.New(o.dataDir, o.sourceURL)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	loader := source.NewLoader(base, source.LoaderOptions{
		PersonsFile:       o.personsFile,
		RelationshipsFile: o.relationshipsFile,
		Persons: source.PersonOptions{
			Deduplicate:       o.deduplicate,
			InferMissionAreas: o.inferMissionAreas,
			StrictEnums:       o.strictEnums,
			Logger:            o.logger.WithField("component", "directory.ingest"),
		},
	})
	return services.NewDirectoryService(loader, services.DirectoryServiceOptions{LoadTimeout: o.timeout}, nil, o.logger), nil
}

// load builds the directory and loads it once. Load failures exit with exitLoad.
func (o *globalOptions) load(ctx context.Context) (*services.DirectoryService, error) {
	svc, err := o.newService()
	if err != nil {
		return nil, err
	}
	if _, err := svc.Load(ctx); err != nil {
		return nil, withCode(exitLoad, err)
	}
	return svc, nil
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitCode(err)
	}
	return exitOK
}
