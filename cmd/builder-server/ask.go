package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"idea-builder-backend/internal/chatclient"
	"idea-builder-backend/internal/config"
	"idea-builder-backend/internal/logger"
	"idea-builder-backend/internal/server"
	"idea-builder-backend/internal/steps"
	"idea-builder-backend/internal/wizard"
)

var (
	askStep   string
	askFields []string
	askServer string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Run one wizard step from the terminal",
	Example: `  builder-server ask --step Pricing --field product_type=app --field audience_income=medium
  builder-server ask --step "Idea Helper" --field audience=students --server http://localhost:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseFields(askFields)
		if err != nil {
			return err
		}
		cfg := config.Load()
		registry, err := steps.Open(cfg.StepsFile)
		if err != nil {
			return err
		}

		log := logger.NewNop()
		var replier wizard.Replier
		if askServer != "" {
			replier = chatclient.New(askServer, cfg.Timeout)
		} else {
			replier = server.NewGateway(cfg, log)
		}

		svc := wizard.NewService(wizard.NewStore(registry, cfg.SessionTTL), registry, replier, log)
		sid := uuid.NewString()
		if _, err := svc.SelectStep(sid, askStep); err != nil {
			return fmt.Errorf("%w (known steps: %s)", err, knownSteps())
		}
		sess, err := svc.Submit(cmd.Context(), sid, values)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.Reply)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askStep, "step", "s", "", "wizard step name")
	askCmd.Flags().StringArrayVarP(&askFields, "field", "f", nil, "field value as key=value (repeatable)")
	askCmd.Flags().StringVar(&askServer, "server", "", "send the request to a running server instead of calling the gateway in-process")
	_ = askCmd.MarkFlagRequired("step")
}

// parseFields turns key=value pairs into form values.
func parseFields(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --field %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

func knownSteps() string {
	names := steps.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
