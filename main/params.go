// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/contractvm/contractvm"
)

const (
	versionKey       = "version"
	configFileKey    = "config-file"
	httpHostKey      = "http-host"
	httpPortKey      = "http-port"
	logLevelKey      = "log-level"
	logFormatKey     = "log-format"
	hrpKey           = "hrp"
	denomKey         = "denom"
	governanceKey    = "governance"
	relayerKey       = "relayer"
	dbDirKey         = "db-dir"
	contractLabelKey = "contract-label"

	envPrefix = "contractvm"
)

var errBadLogFormat = errors.New("log format must be one of terminal, logfmt, json")

// Config is everything the binary needs to serve a contract
type Config struct {
	HTTPHost      string
	HTTPPort      uint16
	LogLevel      log.Lvl
	LogFormat     string
	DBDir         string
	ContractLabel string
	Contract      contractvm.Params
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(contractvm.Name, flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints the version and quits")
	fs.String(configFileKey, "", "Path to a config file; flags and environment take precedence")
	fs.String(httpHostKey, "127.0.0.1", "Address the HTTP server binds to")
	fs.Uint(httpPortKey, 9650, "Port the HTTP server listens on")
	fs.String(logLevelKey, "info", "Minimum log level (debug, info, warn, error, crit)")
	fs.String(logFormatKey, "terminal", "Log format (terminal, logfmt, json)")
	fs.String(hrpKey, "contract", "Human readable part of bech32 addresses")
	fs.String(denomKey, "utoken", "Denomination of bank transfers")
	fs.String(governanceKey, "", "Bech32 address allowed to migrate the contract")
	fs.String(relayerKey, "", "Bech32 address allowed to report packet timeouts and acknowledgements")
	fs.String(dbDirKey, "", "Directory of the leveldb database; state is kept in memory if empty")
	fs.String(contractLabelKey, contractvm.Name, "Label the contract address is derived from")

	return fs
}

// getViper returns the viper environment for the binary. [args] are the
// command line arguments without the program name.
func getViper(args []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet(contractvm.Name, pflag.ContinueOnError)
	fs.AddGoFlagSet(buildFlagSet())
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if path := v.GetString(configFileKey); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read config file %s: %w", path, err)
		}
	}
	return v, nil
}

func buildConfig(v *viper.Viper) (Config, error) {
	lvl, err := log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return Config{}, err
	}
	format := v.GetString(logFormatKey)
	switch format {
	case "terminal", "logfmt", "json":
	default:
		return Config{}, fmt.Errorf("%w: %q", errBadLogFormat, format)
	}
	port := v.GetUint(httpPortKey)
	if port > 65535 {
		return Config{}, fmt.Errorf("http port %d out of range", port)
	}
	return Config{
		HTTPHost:      v.GetString(httpHostKey),
		HTTPPort:      uint16(port),
		LogLevel:      lvl,
		LogFormat:     format,
		DBDir:         v.GetString(dbDirKey),
		ContractLabel: v.GetString(contractLabelKey),
		Contract: contractvm.Params{
			HRP:        v.GetString(hrpKey),
			Denom:      v.GetString(denomKey),
			Governance: v.GetString(governanceKey),
			Relayer:    v.GetString(relayerKey),
		},
	}, nil
}

func logFormat(name string) log.Format {
	switch name {
	case "json":
		return log.JsonFormat()
	case "logfmt":
		return log.LogfmtFormat()
	default:
		return log.TerminalFormat()
	}
}
