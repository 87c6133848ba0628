package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gbplay/bot"
	"gbplay/web"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "connect to Discord and serve the status panel",
	RunE:  runBot,
}

func init() {
	runCmd.Flags().String("token", "", "Discord bot token")
	runCmd.Flags().String("prefix", "", "command prefix (default \"!gb\")")
	runCmd.Flags().String("owner", "", "Discord user ID allowed to run setup commands")
	runCmd.Flags().String("driver", "", "emulator driver (default \"gameboy\")")
	runCmd.Flags().String("state-path", "", "bot state file (default $HOME/.gbplay-state.json)")
	runCmd.Flags().String("web-listen", "127.0.0.1:27680", "listen address of the status panel")
	runCmd.Flags().Bool("open-panel", false, "open the status panel in a browser on start")

	_ = viper.BindPFlags(runCmd.Flags())
}

func runBot(cmd *cobra.Command, args []string) error {
	token := viper.GetString("token")
	if token == "" {
		return errors.New("a Discord bot token is required (--token or GBPLAY_TOKEN)")
	}

	statePath := viper.GetString("state-path")
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		statePath = filepath.Join(home, ".gbplay-state.json")
	}

	b, err := bot.New(bot.Options{
		Token:     token,
		Prefix:    viper.GetString("prefix"),
		OwnerID:   viper.GetString("owner"),
		Driver:    viper.GetString("driver"),
		StatePath: statePath,
	})
	if err != nil {
		return err
	}

	listenAddr := viper.GetString("web-listen")
	webServer := web.NewServer(listenAddr, b)
	b.ProvideViewNotifier(webServer)

	go func() {
		log.Fatal(webServer.Serve())
	}()

	if err = b.Start(); err != nil {
		return err
	}
	log.Printf("gbplay: connected; status panel on http://%s/\n", listenAddr)

	if viper.GetBool("open-panel") {
		if err := open.Start("http://" + listenAddr + "/"); err != nil {
			log.Println(err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("gbplay: shutting down")
	return b.Stop()
}
