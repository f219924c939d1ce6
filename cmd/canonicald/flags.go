package main

import "flag"

type AppFlags struct {
	GlobalConfigFile string
	ListenAddr       string
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	listenAddr := flag.String("listen", "", "Listen address for the HTTP server (overrides config file if set)")

	flag.Parse()

	flags := AppFlags{ListenAddr: *listenAddr}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	return flags
}
