/*
 * requestarr is a Discord bot to search and request movies, TV shows and books.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lucasduport/requestarr/pkg/arr"
	"github.com/lucasduport/requestarr/pkg/config"
	"github.com/lucasduport/requestarr/pkg/database"
	"github.com/lucasduport/requestarr/pkg/discord"
	"github.com/lucasduport/requestarr/pkg/server"
	"github.com/lucasduport/requestarr/pkg/types"
	"github.com/lucasduport/requestarr/pkg/utils"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "requestarr",
	Short: "Discord bot to request movies, TV shows and books",
	Long: `Requestarr is a Discord bot that lets users search and request media
through slash commands.

It supports:
- /movie searches via Radarr
- /tv searches via Sonarr
- /book searches via Readarr
- Optional request history in PostgreSQL
- Optional read-only status API`,

	Run: func(cmd *cobra.Command, args []string) {
		defer utils.Close()

		conf := &config.BotConfig{
			Token:      viper.GetString("discord-token"),
			AppID:      viper.GetString("discord-app-id"),
			DevGuildID: viper.GetString("discord-dev-guild"),
			Radarr: config.ManagerConfig{
				BaseURL: viper.GetString("radarr-url"),
				APIKey:  viper.GetString("radarr-api-key"),
			},
			Sonarr: config.ManagerConfig{
				BaseURL: viper.GetString("sonarr-url"),
				APIKey:  viper.GetString("sonarr-api-key"),
			},
			Readarr: config.ManagerConfig{
				BaseURL: viper.GetString("readarr-url"),
				APIKey:  viper.GetString("readarr-api-key"),
			},
			BookQualityProfileID: viper.GetString("readarr-quality-profile-id"),
			BookRootFolder:       viper.GetString("readarr-root-folder"),
			StatusPort:           viper.GetInt("status-port"),
			DBEnabled:            viper.GetBool("db-enabled"),
		}
		conf.Normalize()
		if err := conf.Validate(); err != nil {
			log.Fatal(err)
		}

		services := buildServices(conf)

		var db *database.DBManager
		if conf.DBEnabled {
			var err error
			db, err = database.NewDBManager()
			if err != nil {
				// The bot is useful without history; degrade instead of dying.
				utils.ErrorLog("Request history disabled: %v", err)
				db = nil
			} else {
				defer db.Close()
			}
		}

		store := discord.NewSessionStore()
		controller := discord.NewController(store, services, db)

		bot, err := discord.NewBot(conf, controller, store)
		if err != nil {
			log.Fatal(err)
		}
		if err := bot.Start(); err != nil {
			log.Fatal(err)
		}
		defer bot.Stop()

		if conf.StatusPort > 0 {
			srv := server.NewServer(conf.StatusPort, bot.Status, db)
			go func() {
				if err := srv.Serve(); err != nil {
					utils.ErrorLog("Status API stopped: %v", err)
				}
			}()
		}

		utils.InfoLog("Requestarr is running. Press CTRL-C to exit.")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
	},
}

// buildServices creates one manager adapter per fully configured manager.
func buildServices(conf *config.BotConfig) map[types.MediaKind]arr.Service {
	services := make(map[types.MediaKind]arr.Service)
	if conf.Radarr.Configured() {
		services[types.KindMovie] = arr.NewMovieClient(conf.Radarr.BaseURL, conf.Radarr.APIKey)
		utils.InfoLog("Radarr configured at %s", conf.Radarr.BaseURL)
	}
	if conf.Sonarr.Configured() {
		services[types.KindTV] = arr.NewSeriesClient(conf.Sonarr.BaseURL, conf.Sonarr.APIKey)
		utils.InfoLog("Sonarr configured at %s", conf.Sonarr.BaseURL)
	}
	if conf.Readarr.Configured() {
		services[types.KindBook] = arr.NewBookClient(conf.Readarr.BaseURL, conf.Readarr.APIKey,
			conf.BookQualityProfileID, conf.BookRootFolder)
		utils.InfoLog("Readarr configured at %s", conf.Readarr.BaseURL)
	}
	return services
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.requestarr.yaml)")

	// Discord flags
	rootCmd.Flags().String("discord-token", "", "Discord bot token")
	rootCmd.Flags().String("discord-app-id", "", "Discord application ID (defaults to the bot user)")
	rootCmd.Flags().String("discord-dev-guild", "", "Guild ID to scope slash commands to (instant registration for development)")

	// Manager flags
	rootCmd.Flags().String("radarr-url", "", "Radarr base URL")
	rootCmd.Flags().String("radarr-api-key", "", "Radarr API key")
	rootCmd.Flags().String("sonarr-url", "", "Sonarr base URL")
	rootCmd.Flags().String("sonarr-api-key", "", "Sonarr API key")
	rootCmd.Flags().String("readarr-url", "", "Readarr base URL")
	rootCmd.Flags().String("readarr-api-key", "", "Readarr API key")
	rootCmd.Flags().String("readarr-quality-profile-id", "1", "Readarr quality profile ID")
	rootCmd.Flags().String("readarr-root-folder", "/books", "Readarr root folder path")

	// Optional services
	rootCmd.Flags().Int("status-port", 0, "Port for the status API (0 disables it)")
	rootCmd.Flags().Bool("db-enabled", false, "Record confirmed requests in PostgreSQL")

	// Bind all flags to viper
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		log.Fatal("Error binding PFlags to viper")
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory and current directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".requestarr")
	}

	// Replace hyphens with underscores in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read environment variables
	viper.AutomaticEnv()

	// Read in config file if found
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
