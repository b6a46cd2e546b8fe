package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/pagination"
)

var (
	adminPage int
	adminSize int

	buildingName    string
	buildingAddress string

	floorBuilding string
	floorNumber   int

	spotFloor  string
	spotNumber string
	spotType   string
	spotRate   float64

	adminUserName     string
	adminUserEmail    string
	adminUserPassword string

	logsAction string
	logsUser   string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration commands",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Run the root wiring first; Cobra only calls the closest hook.
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return cli.requireRole(cmd.Context(), enums.RoleAdmin)
	},
}

var adminDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the lot-wide dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, err := cli.admin.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(dash)
	},
}

var adminBuildingsCmd = &cobra.Command{
	Use:   "buildings",
	Short: "List buildings",
	RunE: func(cmd *cobra.Command, args []string) error {
		buildings, err := cli.admin.Buildings(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(buildings)
	},
}

var adminCreateBuildingCmd = &cobra.Command{
	Use:   "create-building",
	Short: "Create a building",
	RunE: func(cmd *cobra.Command, args []string) error {
		building, err := cli.admin.CreateBuilding(cmd.Context(), portal.BuildingRequest{
			Name:    buildingName,
			Address: buildingAddress,
		})
		if err != nil {
			return err
		}
		return printJSON(building)
	},
}

var adminDeleteBuildingCmd = &cobra.Command{
	Use:   "delete-building <building-id>",
	Short: "Delete a building and its floors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.admin.DeleteBuilding(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("building deleted")
		return nil
	},
}

var adminCreateFloorCmd = &cobra.Command{
	Use:   "create-floor",
	Short: "Add a floor to a building",
	RunE: func(cmd *cobra.Command, args []string) error {
		floor, err := cli.admin.CreateFloor(cmd.Context(), portal.FloorRequest{
			BuildingID:  floorBuilding,
			FloorNumber: floorNumber,
		})
		if err != nil {
			return err
		}
		return printJSON(floor)
	},
}

var adminSpotsCmd = &cobra.Command{
	Use:   "spots",
	Short: "List parking spots",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.admin.SpotsPaginated(cmd.Context(), adminPagination())
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var adminCreateSpotCmd = &cobra.Command{
	Use:   "create-spot",
	Short: "Add a spot to a floor",
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedType, err := enums.ParseSpotType(spotType)
		if err != nil {
			return err
		}
		spot, err := cli.admin.CreateSpot(cmd.Context(), portal.SpotRequest{
			FloorID:    spotFloor,
			SpotNumber: spotNumber,
			Type:       parsedType,
			HourlyRate: spotRate,
		})
		if err != nil {
			return err
		}
		return printJSON(spot)
	},
}

var adminSpotStatusCmd = &cobra.Command{
	Use:   "spot-status <spot-id> <status>",
	Short: "Change a spot's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := enums.ParseSpotStatus(args[1])
		if err != nil {
			return err
		}
		spot, err := cli.admin.UpdateSpotStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		return printJSON(spot)
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.admin.Users(cmd.Context(), adminPagination())
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var adminCreateAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := cli.admin.CreateAdmin(cmd.Context(), portal.CreateUserRequest{
			FullName: adminUserName,
			Email:    adminUserEmail,
			Password: adminUserPassword,
		})
		if err != nil {
			return err
		}
		return printJSON(user)
	},
}

var adminUserStatusCmd = &cobra.Command{
	Use:   "user-status <user-id> <true|false>",
	Short: "Activate or deactivate an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("parsing active flag: %w", err)
		}
		user, err := cli.admin.UpdateUserStatus(cmd.Context(), args[0], active)
		if err != nil {
			return err
		}
		return printJSON(user)
	},
}

var adminLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List the activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := cli.admin.Logs(cmd.Context(), adminPagination(), portal.LogFilter{
			Action: logsAction,
			UserID: logsUser,
		})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

func adminPagination() pagination.Params {
	return pagination.Params{Page: adminPage, Size: adminSize}.Normalize()
}

func init() {
	adminCmd.PersistentFlags().IntVar(&adminPage, "page", 0, "Page number (zero-based)")
	adminCmd.PersistentFlags().IntVar(&adminSize, "size", 20, "Page size")

	adminCreateBuildingCmd.Flags().StringVar(&buildingName, "name", "", "Building name")
	adminCreateBuildingCmd.Flags().StringVar(&buildingAddress, "address", "", "Building address")
	_ = adminCreateBuildingCmd.MarkFlagRequired("name")
	_ = adminCreateBuildingCmd.MarkFlagRequired("address")

	adminCreateFloorCmd.Flags().StringVar(&floorBuilding, "building", "", "Building id")
	adminCreateFloorCmd.Flags().IntVar(&floorNumber, "number", 0, "Floor number")
	_ = adminCreateFloorCmd.MarkFlagRequired("building")

	adminCreateSpotCmd.Flags().StringVar(&spotFloor, "floor", "", "Floor id")
	adminCreateSpotCmd.Flags().StringVar(&spotNumber, "number", "", "Spot number")
	adminCreateSpotCmd.Flags().StringVar(&spotType, "type", "REGULAR", "Spot type")
	adminCreateSpotCmd.Flags().Float64Var(&spotRate, "rate", 0, "Hourly rate")
	_ = adminCreateSpotCmd.MarkFlagRequired("floor")
	_ = adminCreateSpotCmd.MarkFlagRequired("number")
	_ = adminCreateSpotCmd.MarkFlagRequired("rate")

	adminCreateAdminCmd.Flags().StringVar(&adminUserName, "name", "", "Full name")
	adminCreateAdminCmd.Flags().StringVar(&adminUserEmail, "email", "", "Account email")
	adminCreateAdminCmd.Flags().StringVar(&adminUserPassword, "password", "", "Account password")
	_ = adminCreateAdminCmd.MarkFlagRequired("name")
	_ = adminCreateAdminCmd.MarkFlagRequired("email")
	_ = adminCreateAdminCmd.MarkFlagRequired("password")

	adminLogsCmd.Flags().StringVar(&logsAction, "action", "", "Filter by action")
	adminLogsCmd.Flags().StringVar(&logsUser, "user", "", "Filter by user id")

	adminCmd.AddCommand(adminDashboardCmd)
	adminCmd.AddCommand(adminBuildingsCmd)
	adminCmd.AddCommand(adminCreateBuildingCmd)
	adminCmd.AddCommand(adminDeleteBuildingCmd)
	adminCmd.AddCommand(adminCreateFloorCmd)
	adminCmd.AddCommand(adminSpotsCmd)
	adminCmd.AddCommand(adminCreateSpotCmd)
	adminCmd.AddCommand(adminSpotStatusCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminCreateAdminCmd)
	adminCmd.AddCommand(adminUserStatusCmd)
	adminCmd.AddCommand(adminLogsCmd)
}
