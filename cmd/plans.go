package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-plans/app/dto"
	"github.com/vibast-solutions/ms-go-plans/app/mapper"
	"github.com/vibast-solutions/ms-go-plans/app/schema"
	"github.com/vibast-solutions/ms-go-plans/app/service"
	"github.com/vibast-solutions/ms-go-plans/app/types"
	"github.com/vibast-solutions/ms-go-plans/config"
)

var (
	planData  string
	planLimit int64
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage payment provider plans directly",
}

var plansCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a plan from a JSON document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		changes, err := readChanges(cmd.InOrStdin(), planData)
		if err != nil {
			return err
		}
		req, err := types.NewCreatePlanRequestFromChanges(changes)
		if err != nil {
			return fmt.Errorf("invalid plan document: %w", err)
		}
		if err := req.Validate(); err != nil {
			return err
		}

		item, err := newCLIPlanService().CreatePlan(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), &dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
	},
}

var plansGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Retrieve a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &types.GetPlanRequest{ID: strings.TrimSpace(args[0])}
		if err := req.Validate(); err != nil {
			return err
		}

		item, err := newCLIPlanService().GetPlan(cmd.Context(), req.GetID())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), &dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
	},
}

var plansUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a plan from a JSON document; null clears metadata or statement_descriptor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes, err := readChanges(cmd.InOrStdin(), planData)
		if err != nil {
			return err
		}
		req := &types.UpdatePlanRequest{ID: strings.TrimSpace(args[0]), Fields: changes}
		if err := req.Validate(); err != nil {
			return err
		}

		item, err := newCLIPlanService().UpdatePlan(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), &dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
	},
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &types.DeletePlanRequest{ID: strings.TrimSpace(args[0])}
		if err := req.Validate(); err != nil {
			return err
		}

		deleted, err := newCLIPlanService().DeletePlan(cmd.Context(), req.GetID())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), &dto.DeletePlanResponse{
			Message: "Plan deleted successfully",
			ID:      deleted.ID,
			Deleted: deleted.Deleted,
		})
	},
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := &types.ListPlansRequest{Limit: planLimit}
		if err := req.Validate(); err != nil {
			return err
		}

		list, err := newCLIPlanService().ListPlans(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), &dto.ListPlansResponse{
			Plans:   mapper.PlansToResponse(list.Data),
			HasMore: list.HasMore,
		})
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansCreateCmd, plansGetCmd, plansUpdateCmd, plansDeleteCmd, plansListCmd)

	plansCreateCmd.Flags().StringVar(&planData, "data", "", "Plan JSON document, or - to read stdin")
	plansUpdateCmd.Flags().StringVar(&planData, "data", "", "Changes JSON document, or - to read stdin")
	plansListCmd.Flags().Int64Var(&planLimit, "limit", types.DefaultListLimit, "Number of plans to return (1-100)")
}

// newCLIPlanService talks to the provider only. The local mirror is left to
// the sync job.
func newCLIPlanService() *service.PlanService {
	cfg := mustLoadConfig()
	return service.NewPlanService(newPlanClient(cfg, nil), nil, config.CacheConfig{})
}

func readChanges(stdin io.Reader, data string) (schema.Changes, error) {
	var raw []byte
	switch strings.TrimSpace(data) {
	case "":
		return nil, errors.New("--data is required")
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	default:
		raw = []byte(data)
	}

	changes := make(schema.Changes)
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&changes); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	return changes, nil
}

func printJSON(out io.Writer, v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
