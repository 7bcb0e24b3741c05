package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/internal/config"
	"github.com/mickamy/ormassoc/internal/gen"
	"github.com/mickamy/ormassoc/internal/logging"
	"github.com/mickamy/ormassoc/internal/naming"
	"github.com/mickamy/ormassoc/introspect"
	"github.com/mickamy/ormassoc/orm"
	"github.com/mickamy/ormassoc/schema"
)

var version = "dev"

const usage = `usage: ormassoc [flags] <command> [command flags]

commands:
  inspect   print the associations discovered for each table
  snapshot  write the introspected schema as YAML
  gen       render Go source registering the discovered associations

flags:
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ormassoc:", err)
		os.Exit(1)
	}
}

// app carries what every command needs once flags and config are read.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ormassoc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "YAML config file (optional)")
	driver := fs.String("driver", "", "database driver: "+fmt.Sprint(introspect.Drivers()))
	dsn := fs.String("dsn", "", "database DSN (or "+config.EnvPrefix+"DSN)")
	schemaName := fs.String("schema", "", "database schema (driver default if omitted)")
	snapshotPath := fs.String("snapshot", "", "read the schema from a YAML snapshot instead of a database")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err //nolint:wrapcheck // flag already reported it
	}

	if *showVersion {
		fmt.Fprintln(stdout, "ormassoc", version)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	override(&cfg.Database.Driver, *driver)
	override(&cfg.Database.DSN, *dsn)
	override(&cfg.Database.Schema, *schemaName)
	override(&cfg.Snapshot, *snapshotPath)

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err //nolint:wrapcheck // already descriptive
	}
	defer func() { _ = logger.Sync() }()

	a := &app{cfg: cfg, logger: logger, stdout: stdout}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "inspect":
		return a.inspect(ctx, rest)
	case "snapshot":
		return a.snapshot(ctx, rest)
	case "gen":
		return a.gen(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return errUsage
	}
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

// loadSchema reads the configured snapshot, or introspects the database.
func (a *app) loadSchema(ctx context.Context) (*schema.Snapshot, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err //nolint:wrapcheck // sentinel
	}
	if a.cfg.Snapshot != "" {
		s, err := schema.LoadFile(a.cfg.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		a.logger.Debug("snapshot loaded", zap.String("path", a.cfg.Snapshot), zap.Int("tables", len(s.Tables)))
		return s, nil
	}

	in, err := introspect.Open(ctx, a.cfg.Database.Driver, introspect.Options{
		DSN:    a.cfg.Database.DSN,
		Schema: a.cfg.Database.Schema,
		Logger: a.logger,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by Open
	}
	defer func() { _ = in.Close() }()

	s, err := in.Introspect(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by Introspect
	}
	return s, nil
}

func (a *app) discoverer(s *schema.Snapshot) (*assoc.Discoverer, error) {
	opts, err := a.cfg.Associations.Options()
	if err != nil {
		return nil, fmt.Errorf("associations config: %w", err)
	}
	opts.Inflector = naming.Inflector{}
	opts.Logger = a.logger
	return assoc.NewDiscoverer(s, opts), nil
}

// dialect picks the SQL dialect for -sql output. Snapshot-only runs fall
// back to PostgreSQL when the configured driver is unknown.
func (a *app) dialect() orm.Dialect {
	if d, ok := orm.DialectFor(a.cfg.Database.Driver); ok {
		return d
	}
	return orm.PostgreSQL
}

type tableAssociations struct {
	Table        string       `yaml:"table"`
	Associations []assoc.Spec `yaml:"associations"`
}

func (a *app) inspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	table := fs.String("table", "", "only inspect this table")
	format := fs.String("format", "text", "output format: text or yaml")
	showSQL := fs.Bool("sql", false, "print the SELECT joining each association")
	if err := fs.Parse(args); err != nil {
		return err //nolint:wrapcheck // flag already reported it
	}
	if *format != "text" && *format != "yaml" {
		return fmt.Errorf("unknown format %q", *format)
	}

	s, err := a.loadSchema(ctx)
	if err != nil {
		return err
	}
	d, err := a.discoverer(s)
	if err != nil {
		return err
	}
	registry := orm.NewRegistry(s, d, orm.WithUniversalAccessors(a.cfg.Associations.UniversalAccessors...))
	dialect := a.dialect()
	db := orm.New(nil, dialect)

	tables := s.TableNames()
	if *table != "" {
		if _, ok := s.Table(*table); !ok {
			return fmt.Errorf("unknown table %q", *table)
		}
		tables = []string{*table}
	}

	var out []tableAssociations
	for _, t := range tables {
		m := registry.Model(t)
		list, err := m.Associations()
		if err != nil {
			return fmt.Errorf("discover %s: %w", t, err)
		}
		entry := tableAssociations{Table: t}
		for _, as := range list {
			entry.Associations = append(entry.Associations, as.Spec)
		}
		out = append(out, entry)

		if *format != "text" {
			continue
		}
		fmt.Fprintln(a.stdout, t)
		for _, as := range list {
			fmt.Fprintf(a.stdout, "  %s\n", as.Spec)
			if !*showSQL {
				continue
			}
			query, _, err := joinQuery(db, dialect, m, as.Name).SQL()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "    %s\n", query)
		}
	}

	if *format == "yaml" {
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close() //nolint:wrapcheck // flush only
	}
	return nil
}

// joinQuery selects the owner's rows joined along one association.
func joinQuery(db *orm.DB, d orm.Dialect, m *orm.Model, name string) *orm.Query[struct{}] {
	all := d.QuoteIdent(m.Table()) + ".*"
	return orm.NewQuery[struct{}](db, m, nil, nil).Select(all).Join(name)
}

func (a *app) snapshot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	out := fs.String("out", "", "output file (stdout if omitted)")
	if err := fs.Parse(args); err != nil {
		return err //nolint:wrapcheck // flag already reported it
	}

	s, err := a.loadSchema(ctx)
	if err != nil {
		return err
	}
	if *out == "" {
		return s.Save(a.stdout) //nolint:wrapcheck // wrapped by Save
	}
	if err := s.SaveFile(*out); err != nil {
		return err //nolint:wrapcheck // wrapped by SaveFile
	}
	a.logger.Info("snapshot written", zap.String("path", *out), zap.Int("tables", len(s.Tables)))
	return nil
}

func (a *app) gen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	pkg := fs.String("pkg", "", "package name of the generated file (required)")
	out := fs.String("out", "", "output file (stdout if omitted)")
	models := fs.String("models", "", "Go file whose model structs define accessors (optional)")
	if err := fs.Parse(args); err != nil {
		return err //nolint:wrapcheck // flag already reported it
	}
	if *pkg == "" {
		return errors.New("gen: -pkg is required")
	}

	var infos []*gen.ModelInfo
	if *models != "" {
		var err error
		if infos, err = gen.Parse(*models); err != nil {
			return fmt.Errorf("parse %s: %w", *models, err)
		}
	}

	s, err := a.loadSchema(ctx)
	if err != nil {
		return err
	}
	d, err := a.discoverer(s)
	if err != nil {
		return err
	}
	tables, err := gen.Collect(d, s.TableNames(), infos, a.cfg.Associations.UniversalAccessors)
	if err != nil {
		return err //nolint:wrapcheck // wrapped by Collect
	}

	src, err := gen.Render(tables, gen.RenderOption{Package: *pkg, Command: "ormassoc gen"})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if *out == "" {
		_, err := a.stdout.Write(src)
		return err //nolint:wrapcheck // stdout
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil { //nolint:gosec // generated code should be world-readable
		return fmt.Errorf("write %s: %w", *out, err)
	}
	a.logger.Info("associations generated", zap.String("path", *out), zap.Int("tables", len(tables)))
	return nil
}
