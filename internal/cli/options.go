package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/eleven-am/routeshift/internal/resolver"
)

const (
	flagConfig                     = "config"
	flagLogLevel                   = "log-level"
	flagLogFormat                  = "log-format"
	flagNoColor                    = "no-color"
	flagConcurrency, flagConcShort = "concurrency", "c"
	flagDryRun, flagDryRunShort    = "dry-run", "d"
	flagAccountID                  = "account-id"
	flagRoleARNPattern             = "role-arn-pattern"
	flagMaxAttempts                = "max-attempts"
	flagSkipENICheck               = "skip-eni-check"
	flagNameserver, flagNSShort    = "nameserver", "n"
	flagResolvConf                 = "resolv-conf"
	flagSystemResolver             = "system-resolver"
	flagDNSTimeout                 = "dns-timeout"
	flagTargetENI                  = "target-eni"
	flagIncludeLocal               = "include-local"

	envPrefix = "ROUTESHIFT"

	defaultRoutesFile  = "./routes.json"
	defaultHostsFile   = "./hosts.csv"
	defaultMatchesFile = "./matches.csv"

	logFormatText = "text"
	logFormatJSON = "json"
)

type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	NoColor    bool
}

func (o *GlobalOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, flagConfig, "", "Configuration file (yaml, json or toml) providing flag values.")
	fs.StringVar(&o.LogLevel, flagLogLevel, logrus.WarnLevel.String(), "Log level: trace, debug, info, warn, error.")
	fs.StringVar(&o.LogFormat, flagLogFormat, logFormatText, "Log format: text or json.")
	fs.BoolVar(&o.NoColor, flagNoColor, false, "Disable colored output.")
}

func (o *GlobalOptions) Validate() error {
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return err
	}
	switch o.LogFormat {
	case logFormatText, logFormatJSON:
	default:
		return fmt.Errorf("unsupported log format: %s", o.LogFormat)
	}
	return nil
}

// AWSOptions select the credentials and retry behaviour of EC2 calls.
type AWSOptions struct {
	AccountID      string
	RoleARNPattern string
	MaxAttempts    int
}

func (o *AWSOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.AccountID, flagAccountID, "", "Target account; when set, the role built from --role-arn-pattern is assumed.")
	fs.StringVar(&o.RoleARNPattern, flagRoleARNPattern, "", "Role ARN pattern with %s standing for the account ID.")
	fs.IntVar(&o.MaxAttempts, flagMaxAttempts, 5, "Maximum attempts per EC2 API call, including SDK retries.")
}

func (o *AWSOptions) Validate() error {
	if o.MaxAttempts < 1 {
		return fmt.Errorf("--%s must be at least 1", flagMaxAttempts)
	}
	return nil
}

type ResolverOptions struct {
	Nameservers []string
	ResolvConf  string
	System      bool
	Timeout     time.Duration
}

func (o *ResolverOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.Nameservers, flagNameserver, flagNSShort, nil, "Nameserver to query, host[:port] (multiple flags allowed).")
	fs.StringVar(&o.ResolvConf, flagResolvConf, resolver.DefaultResolvConf, "resolv.conf file listing nameservers when --nameserver is not given.")
	fs.BoolVar(&o.System, flagSystemResolver, false, "Use the operating system resolver instead of querying nameservers directly.")
	fs.DurationVar(&o.Timeout, flagDNSTimeout, 5*time.Second, "Timeout of a single DNS query.")
}

func (o *ResolverOptions) Validate() error {
	if o.System && len(o.Nameservers) > 0 {
		return fmt.Errorf("--%s and --%s are mutually exclusive", flagSystemResolver, flagNameserver)
	}
	return nil
}
