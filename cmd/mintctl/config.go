// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/internal/log"
	"github.com/mintastic/mintsdk/internal/version"
	"github.com/mintastic/mintsdk/journal"
	"github.com/mintastic/mintsdk/sampleconfig"
	"github.com/mintastic/mintsdk/txn"
)

const (
	defaultConfigFilename = "mintctl.conf"
	defaultLogFilename    = "mintctl.log"
	defaultLogLevel       = "info"
	defaultRPCServer      = "localhost"
	defaultRPCPort        = "3569"
	defaultKeyEnv         = "MINTCTL_PRIVATE_KEY"
	defaultTimeout        = 5 * time.Minute
)

var (
	mintctlHomeDir        = btcutil.AppDataDir("mintctl", false)
	defaultConfigFile     = filepath.Join(mintctlHomeDir, defaultConfigFilename)
	defaultDeploymentFile = filepath.Join(mintctlHomeDir, "deployment.yaml")
	defaultCodeDir        = filepath.Join(mintctlHomeDir, "cadence")
	defaultJournalDir     = filepath.Join(mintctlHomeDir, "journal")
	defaultLogDir         = filepath.Join(mintctlHomeDir, "logs")
)

// config defines the configuration options for mintctl.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion    bool          `short:"V" long:"version" description:"Display version information and exit"`
	ListCommands   bool          `short:"l" long:"listcommands" description:"List all of the supported commands and exit"`
	ConfigFile     string        `short:"C" long:"configfile" description:"Path to configuration file"`
	RPCServer      string        `short:"s" long:"rpcserver" description:"Ledger access node to connect to"`
	RPCEndpoint    string        `long:"rpcendpoint" description:"Path of the JSON-RPC endpoint"`
	RPCCert        string        `short:"c" long:"rpccert" description:"RPC server certificate chain for validation"`
	NoTLS          bool          `long:"notls" description:"Disable TLS"`
	Websocket      bool          `long:"websocket" description:"Use one websocket instead of an HTTP POST per request"`
	Proxy          string        `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser      string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass      string        `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	Deployment     string        `long:"deployment" description:"YAML file naming the contract addresses of the network"`
	CodeDir        string        `long:"codedir" description:"Directory holding the transaction and script templates"`
	ServiceAddress string        `long:"serviceaddress" description:"Service account address; overrides the deployment file"`
	KeyEnv         string        `long:"keyenv" description:"Environment variable holding the hex private key"`
	KeyFile        string        `long:"keyfile" description:"File holding the hex private key; the key is prompted for when neither source has one"`
	JournalDir     string        `long:"journaldir" description:"Directory of the transaction journal"`
	JournalBackend string        `long:"journalbackend" description:"Storage engine of the journal {leveldb, pebble}"`
	NoJournal      bool          `long:"nojournal" description:"Do not record transactions"`
	LogDir         string        `long:"logdir" description:"Directory to log output"`
	DebugLevel     string        `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	PollInterval   time.Duration `long:"pollinterval" description:"Time between transaction status queries"`
	Timeout        time.Duration `long:"timeout" description:"Give up waiting for a result after this long"`
	MetricsListen  string        `long:"metricslisten" description:"Serve prometheus metrics on this interface/port while the command runs"`
}

// normalizeAddress returns addr with the passed default port appended if
// there is not already a port specified.
func normalizeAddress(addr, defaultPort string) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, defaultPort)
	}
	return addr
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !log.ValidLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		log.SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := log.SubsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, log.SupportedSubsystems())
		}

		// Validate log level.
		if !log.ValidLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		log.SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// createDefaultConfigFile writes the sample configuration to destinationPath,
// creating its directory when needed.
func createDefaultConfigFile(destinationPath string) error {
	err := os.MkdirAll(filepath.Dir(destinationPath), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(destinationPath, []byte(sampleconfig.FileContents), 0600)
}

// keySource returns where the private key is read from: the key file when
// one is configured, the key environment variable when it is set, and an
// interactive prompt otherwise.
func (cfg *config) keySource() auth.KeySource {
	if cfg.KeyFile != "" {
		return auth.FileKeySource(cfg.KeyFile)
	}
	if os.Getenv(cfg.KeyEnv) != "" {
		return auth.EnvKeySource(cfg.KeyEnv)
	}
	return newPromptKeySource()
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options.  Command line options always take precedence.
func loadConfig() (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile:     defaultConfigFile,
		RPCServer:      defaultRPCServer,
		Deployment:     defaultDeploymentFile,
		CodeDir:        defaultCodeDir,
		KeyEnv:         defaultKeyEnv,
		JournalDir:     defaultJournalDir,
		JournalBackend: string(journal.BackendLevelDB),
		LogDir:         defaultLogDir,
		DebugLevel:     defaultLogLevel,
		PollInterval:   txn.DefaultPollInterval,
		Timeout:        defaultTimeout,
	}

	// Pre-parse the command line options to see if an alternative config
	// file, the version flag, or the list commands flag was specified.  Any
	// errors aside from the help message error can be ignored here since
	// they will be caught by the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show options", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	// Show the available commands and exit if the associated flag was
	// specified.
	if preCfg.ListCommands {
		listCommands()
		os.Exit(0)
	}

	// Write the sample config the first time the default config file is
	// used.
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	if preCfg.ConfigFile == defaultConfigFile && !fileExists(configFile) {
		err := createDefaultConfigFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default "+
				"config file: %v\n", err)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n",
				err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if err := log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %v", "loadConfig", err.Error())
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	switch journal.Backend(cfg.JournalBackend) {
	case journal.BackendLevelDB, journal.BackendPebble:
	default:
		err := fmt.Errorf("loadConfig: the specified journal backend "+
			"[%v] is invalid -- supported backends %v, %v",
			cfg.JournalBackend, journal.BackendLevelDB,
			journal.BackendPebble)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	if cfg.PollInterval <= 0 {
		err := fmt.Errorf("loadConfig: the poll interval must be positive")
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Handle environment variable expansion in the paths.
	if cfg.RPCCert != "" {
		cfg.RPCCert = cleanAndExpandPath(cfg.RPCCert)
	}
	cfg.Deployment = cleanAndExpandPath(cfg.Deployment)
	cfg.CodeDir = cleanAndExpandPath(cfg.CodeDir)
	cfg.JournalDir = cleanAndExpandPath(cfg.JournalDir)
	if cfg.KeyFile != "" {
		cfg.KeyFile = cleanAndExpandPath(cfg.KeyFile)
	}

	// Add default port to RPC server if needed.
	cfg.RPCServer = normalizeAddress(cfg.RPCServer, defaultRPCPort)

	return &cfg, remainingArgs, nil
}
