package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	awspkg "github.com/eleven-am/routeshift/internal/aws"
	"github.com/eleven-am/routeshift/internal/domain"
	"github.com/eleven-am/routeshift/internal/logfields"
	"github.com/eleven-am/routeshift/internal/output"
	"github.com/eleven-am/routeshift/internal/resolver"
)

const long = `routeshift manages VPC routing during a network migration.

It inserts a list of destination routes into route tables, pointing them at
a new network interface, and audits which hosts still resolve into the
legacy ranges those routes cover.

Every flag may also be given as a ROUTESHIFT_<FLAG> environment variable,
for example ROUTESHIFT_LOG_LEVEL=debug, or through --config.`

// Deps are the collaborators a command builds at run time.
type Deps struct {
	Out              io.Writer
	LogOut           io.Writer
	NewNetworkClient func(ctx context.Context, region string, opts AWSOptions, log logrus.FieldLogger) (domain.NetworkClient, error)
	NewResolver      func(opts ResolverOptions) (domain.Resolver, error)
}

func DefaultDeps() Deps {
	return Deps{
		Out:              os.Stdout,
		LogOut:           os.Stderr,
		NewNetworkClient: newNetworkClient,
		NewResolver:      newResolver,
	}
}

type app struct {
	deps    Deps
	global  GlobalOptions
	viper   *viper.Viper
	log     *logrus.Logger
	printer *output.Printer
}

func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps, viper: viper.New()}
	if a.deps.Out == nil {
		a.deps.Out = os.Stdout
	}
	if a.deps.LogOut == nil {
		a.deps.LogOut = os.Stderr
	}

	cmd := &cobra.Command{
		Use:           "routeshift",
		Short:         "Bulk-insert VPC routes and audit hosts still covered by legacy routes",
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindEnv(cmd); err != nil {
				return err
			}
			if err := a.global.Validate(); err != nil {
				return err
			}
			a.log = newLogger(a.global, a.deps.LogOut)
			a.printer = output.NewPrinter(a.deps.Out, a.global.NoColor)
			return nil
		},
	}
	cmd.SetOut(a.deps.Out)
	cmd.SetErr(a.deps.LogOut)

	a.global.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newUpdateRouteTablesCommand(a),
		newFindLegacyHostsCommand(a),
		newExportRoutesCommand(a),
	)
	return cmd
}

// bindEnv fills every flag the user did not set on the command line from
// the environment or the config file, in that order of precedence.
func (a *app) bindEnv(cmd *cobra.Command) error {
	v := a.viper
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := cmd.Flags()
	configFile, _ := fs.GetString(flagConfig)
	if configFile == "" {
		configFile = v.GetString(flagConfig)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var errs error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		value := v.Get(f.Name)
		if list, ok := value.([]interface{}); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			value = strings.Join(parts, ",")
		}
		if err := fs.Set(f.Name, fmt.Sprint(value)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("--%s: %w", f.Name, err))
		}
	})
	return errs
}

func newLogger(o GlobalOptions, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	switch o.LogFormat {
	case logFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: o.NoColor,
			FullTimestamp: true,
		})
	}
	return logger
}

func newNetworkClient(ctx context.Context, region string, opts AWSOptions, log logrus.FieldLogger) (domain.NetworkClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	accounts := awspkg.NewAccountContext(cfg, opts.RoleARNPattern, awspkg.WithMaxAttempts(opts.MaxAttempts))
	if account, arn, err := accounts.CallerIdentity(ctx); err != nil {
		log.WithError(err).Warn("Could not determine caller identity")
	} else {
		log.WithFields(logrus.Fields{
			logfields.Account: account,
			logfields.ARN:     arn,
		}).Info("Using AWS credentials")
	}

	client, err := accounts.GetClient(ctx, opts.AccountID)
	if err != nil {
		return nil, fmt.Errorf("ec2 client for account %q: %w", opts.AccountID, err)
	}
	return client, nil
}

func newResolver(opts ResolverOptions) (domain.Resolver, error) {
	switch {
	case opts.System:
		return resolver.NewSystemResolver(), nil
	case len(opts.Nameservers) > 0:
		return resolver.NewDNSResolver(opts.Nameservers, opts.Timeout), nil
	default:
		r, err := resolver.NewDNSResolverFromConfig(opts.ResolvConf, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand(DefaultDeps())
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
