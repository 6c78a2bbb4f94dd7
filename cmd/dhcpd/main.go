// Command dhcpd runs the configurable DHCPv4 server. Logging setup is
// lifted from jacobweinstock/dhcp's cmd/main.go: logrus formatted with
// logrus-prefix, adapted to logr via logrusr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bombsimon/logrusr/v2"
	logPrefixed "github.com/chappjc/logrus-prefix"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/northfield-labs/dhcpd/cache"
	"github.com/northfield-labs/dhcpd/config"
	"github.com/northfield-labs/dhcpd/option"
	"github.com/northfield-labs/dhcpd/server"
	"github.com/northfield-labs/dhcpd/source/rest"
)

func main() {
	var configPath string
	flags := pflag.NewFlagSet("dhcpd", pflag.ExitOnError)
	flags.StringVar(&configPath, "config", "/etc/dhcpd/dhcpd.yaml", "path to the server configuration file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logrusLog := logrus.New()
	logrusLog.SetFormatter(&logPrefixed.TextFormatter{FullTimestamp: true, ForceColors: true})
	log := logrusr.New(logrusLog)

	if err := run(context.Background(), configPath, log); err != nil {
		log.Error(err, "exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, log logr.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := option.NewRegistry()
	sharedCache := cache.New()

	var src server.Source
	for _, sc := range cfg.Sources {
		if sc.Kind != "rest" {
			return fmt.Errorf("unsupported source kind %q", sc.Kind)
		}
		restCfg, err := rest.FromRaw(sc.Config)
		if err != nil {
			return fmt.Errorf("source %q: %w", sc.Kind, err)
		}
		src = rest.New(*restCfg, registry, sharedCache, log.WithName("rest"))
		break // only the first configured source is used; later entries are ignored
	}
	if src == nil {
		return fmt.Errorf("no source configured")
	}

	srv := &server.Server{
		Log:    log.WithName("server"),
		Source: src,
		Port:   cfg.Port,
		Listen: cfg.Listen,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(sigCtx)
}
