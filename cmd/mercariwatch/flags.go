package main

import "flag"

type AppFlags struct {
	Keywords         string
	MinPrices        string
	MaxPrices        string
	GlobalConfigFile string
	AlertzyKey       string
	DisableAlertzy   bool
	DisableEmail     bool
	LogFile          string
}

func ParseFlags() AppFlags {
	keywords := flag.String("keywords", "", "Keywords to monitor, separated by commas.")
	keywordsAlias := flag.String("k", "", "Alias for -keywords")

	minPrices := flag.String("min-prices", "", "Minimum price for each keyword, separated by commas.")
	maxPrices := flag.String("max-prices", "", "Maximum price for each keyword, separated by commas.")

	globalConfigFile := flag.String("config", "", "Path to the YAML/JSON configuration file. A missing file disables the email channel and falls back to defaults.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	alertzyKey := flag.String("alertzy-key", "", "Alertzy account key. Get yours at https://alertzy.app/")
	disableAlertzy := flag.Bool("disable-alertzy", false, "Disable push notifications even if a key is configured.")
	disableEmail := flag.Bool("disable-email", false, "Disable email notifications even if credentials are configured.")

	logFile := flag.String("log-file", "", "Write logs to this file (rotated) in addition to stderr.")

	flag.Parse()

	flags := AppFlags{
		MinPrices:      *minPrices,
		MaxPrices:      *maxPrices,
		AlertzyKey:     *alertzyKey,
		DisableAlertzy: *disableAlertzy,
		DisableEmail:   *disableEmail,
		LogFile:        *logFile,
	}

	if *keywords != "" {
		flags.Keywords = *keywords
	} else if *keywordsAlias != "" {
		flags.Keywords = *keywordsAlias
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	return flags
}
