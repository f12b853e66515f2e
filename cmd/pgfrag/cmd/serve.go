package cmd

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/pgfrag/pkg/api"
)

var listenAddr string

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Address to listen on")
	addFragmentFlags(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve masses and fragment lists over HTTP",
	Long: `Serve the mass and fragment calculations over HTTP. Fragment and filter
flags set the defaults of every request.

Endpoints:
  GET /api/mass?structure=g~m(AEJA)
  GET /api/fragments?structure=g~m(AEJA)&maxCleavages=1&format=text`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	parser, err := newParser()
	if err != nil {
		return err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	filterConfig, err := cfg.FilterConfig()
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	peptidoglycanAPI := &api.PeptidoglycanAPI{
		Router:  app.Group("/api"),
		Parser:  parser,
		Options: opts,
		Filter:  filterConfig,
	}
	peptidoglycanAPI.Register()

	go func() {
		<-cmd.Context().Done()
		if err := app.Shutdown(); err != nil {
			log.Warnf("Shutdown: %v", err)
		}
	}()

	log.Infof("Listening on %s", listenAddr)
	return app.Listen(listenAddr)
}
