package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cliName = "promptforge"

var rootCmd = &cobra.Command{
	Use:   cliName,
	Short: "A multi-agent prompt optimisation engine",
	Long:  "promptforge orchestrates Deconstruct -> Diagnose -> Design -> Sample -> Evaluate over a single upstream chat-completion model.",
}

func init() {
	cobra.OnInitialize(initViper)
	rootCmd.PersistentFlags().String("config", "", "path to a config file (optional, env vars take precedence)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initViper() {
	viper.AutomaticEnv()
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		_ = viper.ReadInConfig()
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the promptforge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cliName + " v0.1.0")
	},
}
