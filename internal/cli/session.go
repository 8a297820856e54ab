package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var sessionJSON bool

var sessionCmd = &cobra.Command{
	Use:   "session [session-id]",
	Short: "Show one session in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runSession,
}

func init() {
	sessionCmd.Flags().BoolVar(&sessionJSON, "json", false, "Print the session as JSON")
}

func runSession(cmd *cobra.Command, args []string) error {
	conn, client, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	sess, err := client.GetSession(ctx, args[0])
	if err != nil {
		return rpcError("failed to get session", err)
	}

	if sessionJSON {
		return writeJSON(os.Stdout, sess)
	}
	writeSessionDetail(os.Stdout, sess, defaultOutputOptions(os.Stdout))
	return nil
}

// rpcError turns a gRPC status into a short user-facing error.
func rpcError(action string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", action, err)
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %s", action, st.Message())
	case codes.Unavailable:
		return fmt.Errorf("%s: daemon unavailable (is agentroomd running?)", action)
	default:
		return fmt.Errorf("%s: %s", action, st.Message())
	}
}
