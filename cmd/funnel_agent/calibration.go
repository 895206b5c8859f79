package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/explanation"
	"github.com/jonathan/hiring-funnel/internal/types"
	"github.com/spf13/cobra"
)

// calibrationView is the printed form of one role level's factors.
type calibrationView struct {
	RoleLevel   types.RoleLevel          `json:"role_level"`
	EarlyCareer bool                     `json:"early_career"`
	RoleContext string                   `json:"role_context,omitempty"`
	Factors     types.CalibrationFactors `json:"factors"`
}

func newCalibrationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calibration [level]",
		Short: "Print the calibration factors for a role level",
		Long:  `Prints the scoring calibration for the given role level, or for every level when none is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			levels := types.AllRoleLevels
			if len(args) == 1 {
				level, err := types.ParseRoleLevel(args[0])
				if err != nil {
					return err
				}
				levels = []types.RoleLevel{level}
			}

			views := make([]calibrationView, 0, len(levels))
			for _, level := range levels {
				factors := calibration.Factors(level)
				views = append(views, calibrationView{
					RoleLevel:   level,
					EarlyCareer: calibration.IsEarlyCareer(level),
					RoleContext: explanation.RoleContext(level, factors),
					Factors:     factors,
				})
			}

			var out any = views
			if len(views) == 1 {
				out = views[0]
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
