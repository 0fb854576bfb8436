package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lp-radius/goradius/internal/radius"
	"github.com/lp-radius/goradius/internal/radius/registry"
)

// Standard attribute Types used directly by the CLI (RFC 2865 §5).
const (
	attrUserName      byte = 1
	attrUserPassword  byte = 2
	attrNASIdentifier byte = 32
)

func sendCmd() *cobra.Command {
	var user, password, nasID string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an Access-Request and print the response (RFC 2865)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}

			pkt, err := radius.Create(registry.CodeAccessRequest)
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}

			if user != "" {
				attr, err := radius.NewStringAttribute(attrUserName, user)
				if err != nil {
					return fmt.Errorf("encode User-Name: %w", err)
				}
				if err := pkt.Append(attr); err != nil {
					return fmt.Errorf("append User-Name: %w", err)
				}
			}
			if nasID != "" {
				attr, err := radius.NewStringAttribute(attrNASIdentifier, nasID)
				if err != nil {
					return fmt.Errorf("encode NAS-Identifier: %w", err)
				}
				if err := pkt.Append(attr); err != nil {
					return fmt.Errorf("append NAS-Identifier: %w", err)
				}
			}
			// The Request Authenticator must exist before User-Password is
			// PAP-encoded (RFC 2865 §5.2), so it is signed here -- before any
			// Message-Authenticator is appended -- and never recomputed.
			if err := pkt.SetAuthenticator([]byte(secret), nil); err != nil {
				return fmt.Errorf("sign request authenticator: %w", err)
			}

			if password != "" {
				encoded, err := radius.EncodePAP([]byte(password), []byte(secret), pkt.Authenticator[:])
				if err != nil {
					return fmt.Errorf("encode User-Password: %w", err)
				}
				attr, err := radius.NewOpaqueAttribute(attrUserPassword, encoded)
				if err != nil {
					return fmt.Errorf("build User-Password attribute: %w", err)
				}
				if err := pkt.Append(attr); err != nil {
					return fmt.Errorf("append User-Password: %w", err)
				}
			}

			if err := pkt.SetMessageAuthenticator([]byte(secret)); err != nil {
				return fmt.Errorf("sign message authenticator: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			start := time.Now()
			reply, wire, err := activeClient.SendReceive(ctx, pkt, maxAttempts)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("send Access-Request: %w", err)
			}
			if !radius.VerifyResponseAuthenticator(wire, pkt.Authenticator[:], []byte(secret)) {
				return fmt.Errorf("response authenticator failed to verify")
			}

			out, err := formatReply(reply, elapsed.String(), outputFormat)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User-Name attribute value")
	cmd.Flags().StringVar(&password, "password", "", "plaintext password, PAP-encoded before sending")
	cmd.Flags().StringVar(&nasID, "nas-id", "", "NAS-Identifier attribute value")

	return cmd
}
