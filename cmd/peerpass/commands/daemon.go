package commands

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func daemonCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the identity sync engine until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(appCtx.Registry, promhttp.HandlerOpts{}))
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						appCtx.Log.Warn("metrics server stopped", zap.Error(err))
					}
				}()
				defer srv.Close()
			}

			if self, ok := appCtx.Identity.Self(); ok {
				fmt.Printf("Announcing %s\n", self.DisplayName())
			} else {
				fmt.Println("No identity yet; run create. Sync loop is idle until then.")
			}

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	return cmd
}
