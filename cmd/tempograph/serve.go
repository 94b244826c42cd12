package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tempograph/tempograph/cmd/tempograph/internal/ui"
	"github.com/tempograph/tempograph/pkg/graph"
	"github.com/tempograph/tempograph/pkg/live"
	"github.com/tempograph/tempograph/pkg/vis"
)

func newServeCommand() *cobra.Command {
	var (
		dataPath   string
		configPath string
		addr       string
		watch      bool
		withTUI    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualization live over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := vis.Options{}
			if configPath != "" {
				var err error
				opts, err = vis.LoadOptions(configPath)
				if err != nil {
					return err
				}
			}

			payload, err := graph.LoadPayload(dataPath)
			if err != nil {
				return fmt.Errorf("load data: %w", err)
			}

			viewer, err := vis.New(opts)
			if err != nil {
				return err
			}
			if err := viewer.Mount(payload); err != nil {
				return err
			}
			viewer.Start()
			defer viewer.Stop()

			server := live.NewServer(viewer)

			mux := http.NewServeMux()
			mux.HandleFunc("/ws", server.HandleWebSocket)
			mux.HandleFunc("/export.svg", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/svg+xml")
				if err := viewer.Widgets().SaveSVG(w); err != nil {
					log.Printf("[serve] svg export: %v", err)
				}
			})
			mux.HandleFunc("/export.png", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				if err := viewer.Widgets().SavePNG(w); err != nil {
					log.Printf("[serve] png export: %v", err)
				}
			})

			if watch {
				watcher, err := fsnotify.NewWatcher()
				if err != nil {
					return fmt.Errorf("create file watcher: %w", err)
				}
				defer watcher.Close()
				if err := watcher.Add(dataPath); err != nil {
					return fmt.Errorf("watch %s: %w", dataPath, err)
				}
				go watchPayload(watcher, dataPath, viewer)
			}

			httpServer := &http.Server{Addr: addr, Handler: mux}
			if withTUI {
				go func() {
					log.Printf("[serve] listening on %s", addr)
					if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Printf("[serve] http: %v", err)
					}
				}()
				return ui.Run(viewer, server)
			}

			log.Printf("[serve] listening on %s", addr)
			return httpServer.ListenAndServe()
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "network.json", "payload JSON file")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8791", "listen address")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the payload when the file changes")
	cmd.Flags().BoolVarP(&withTUI, "tui", "t", false, "run the terminal playback UI")
	return cmd
}

// watchPayload debounces file events and swaps the payload on change.
func watchPayload(watcher *fsnotify.Watcher, dataPath string, viewer *vis.Viewer) {
	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = true
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Println("[serve] watcher error:", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			payload, err := graph.LoadPayload(dataPath)
			if err != nil {
				log.Printf("[serve] reload %s: %v", dataPath, err)
				continue
			}
			log.Printf("[serve] reloading %s", dataPath)
			viewer.UpdateData(payload)
		}
	}
}
