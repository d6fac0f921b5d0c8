package main

import (
	"log"

	"hirehub-api/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hirehub-api"
)

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "hirehub-api serves the HireHub application pipeline and realtime notifications",
	// serve is the default command.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(config.LoadEnvFile)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}
