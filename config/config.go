package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/polyrabbit/coin-board/market"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

//go:embed coin_board.example.yml
var exampleConfig string

// APIKeyEnv is read from the environment or a .env file in the working directory.
const APIKeyEnv = "CMC_PRO_API_KEY"

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	showVersion := pflag.BoolP("version", "v", false, "Show version number")
	showHelp := pflag.BoolP("help", "h", false, "Show usage message")
	pflag.CommandLine.MarkHidden("help")
	pflag.BoolP("debug", "d", false, "Enable debug mode")

	var configFile string
	pflag.StringVarP(&configFile, "config-file", "c", "", `Config file path, use "--example-config-file <path>" `+
		"to generate an example config file,\n"+
		"by default coin-board uses \"coin_board.yml\" in current directory or $HOME as config file")
	var exampleConfigFile string
	pflag.StringVar(&exampleConfigFile, "example-config-file", "",
		"Generate example config file to the specified file path, by default it outputs to stdout")
	pflag.Lookup("example-config-file").NoOptDefVal = "-"

	pflag.String("api-key", "", "CoinMarketCap API key, prefer setting "+APIKeyEnv+" in the environment or .env")
	pflag.String("base-url", "", "CoinMarketCap API base URL")
	pflag.StringP("currency", "u", market.CurrencyUSD, "Currency for prices, one of "+
		strings.Join(market.SupportedCurrencies(), ", "))
	pflag.StringSliceP("symbols", "y", market.DefaultSymbols(), "Comma-separated symbols to compare")
	pflag.StringP("timeframe", "f", string(market.Timeframe7d), "Percent change timeframe, one of 7d, 24h, 1h")
	pflag.StringSliceP("show", "s", supportedViews(), "Only show comma-separated views")
	pflag.StringP("export", "e", "", `Export price data of the selected cryptos as CSV to this path, "-" for stdout`)
	pflag.IntP("refresh", "r", 0, "Auto refresh on every specified seconds, "+
		"note CoinMarketCap has a rate limit, \ntoo frequent refresh may use up your API credits")
	pflag.Bool("refresh-now", false, "Ignore cached data on the first fetch")
	pflag.Int("cache-ttl", 30, "Seconds to reuse fetched data, 0 disables caching")
	pflag.StringP("listen", "L", "", `Serve the dashboard over HTTP on this address (eg. ":8080") instead of rendering in the terminal`)
	pflag.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	pflag.IntP("timeout", "t", 10, "HTTP request timeout in seconds")
	pflag.CommandLine.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	if exampleConfigFile != "" {
		writeExampleConfig(exampleConfigFile)
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Error reading .env file: %v", err)
	}

	v := viper.GetViper()
	v.BindPFlags(pflag.CommandLine)
	v.BindPFlag("api_key", pflag.Lookup("api-key"))
	v.BindPFlag("base_url", pflag.Lookup("base-url"))
	// Set configure file
	v.SetConfigName("coin_board") // name of config file (without extension)
	v.AddConfigPath(".")          // path to look for the config file in
	v.AddConfigPath("$HOME")      // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")       // and /etc
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil { // Find and read the config file
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			logrus.Debugln("No config file found, using flags and environment")
		default:
			logrus.Warnf("Error reading config file: %v", err)
		}
	}

	cfg, err := Load(v)
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugln("Using config file:", v.ConfigFileUsed())
	return cfg
}

// Load decodes and normalizes the configuration held by v. The API key is
// also looked up in the environment.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("COIN_BOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.BindEnv("api_key", APIKeyEnv)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", v.ConfigFileUsed(), err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nCompare the top 100 cryptocurrencies from CoinMarketCap in the terminal or over HTTP")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nAn API key is required, get one from https://coinmarketcap.com/api/ and export it as "+APIKeyEnv+".")
	fmt.Fprintln(os.Stderr, "\nFind help/updates from here - https://github.com/polyrabbit/coin-board")
	os.Exit(0)
}

func writeExampleConfig(fpath string) {
	fout, err := os.Stdout, error(nil)
	if fpath != "-" {
		if _, err := os.Stat(fpath); err == nil {
			logrus.Warnf("%s already exists, skipping", fpath)
			return
		}
		if fout, err = os.Create(fpath); err != nil {
			logrus.Errorf("Failed to create config file %s, error: %v", fpath, err)
			return
		}
		defer fout.Close()
	}
	if _, err := fout.WriteString(exampleConfig); err != nil {
		logrus.Errorf("Failed to write config file %s, error: %v", fpath, err)
	} else if fout != os.Stdout {
		logrus.Infof("Write example config file to %s", fpath)
	}
}
