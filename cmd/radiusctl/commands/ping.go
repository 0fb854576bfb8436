package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lp-radius/goradius/internal/radius"
)

func pingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Probe server liveness with a Status-Server request (RFC 5997)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			start := time.Now()
			reply, wire, err := activeClient.Ping(ctx, []byte(secret))
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			if !radius.VerifyMessageAuthenticator(wire, []byte(secret)) {
				return fmt.Errorf("response message authenticator failed to verify")
			}

			out, err := formatReply(reply, elapsed.String(), outputFormat)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	return cmd
}
