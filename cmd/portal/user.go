package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/enums"
)

var (
	spotsBuilding string
	spotsFloor    string
	spotsType     string

	reserveSpot     string
	reserveVehicle  string
	reserveDuration int

	checkInSpot    string
	checkInVehicle string

	sessionsAll bool

	checkOutMethod string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the driver dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		dash, err := cli.user.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(dash)
	},
}

var spotsCmd = &cobra.Command{
	Use:   "spots",
	Short: "List available parking spots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}

		filter := portal.SpotFilter{BuildingID: spotsBuilding, FloorID: spotsFloor}
		if spotsType != "" {
			spotType, err := enums.ParseSpotType(spotsType)
			if err != nil {
				return err
			}
			filter.Type = spotType
		}

		spots, err := cli.user.AvailableSpots(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return printJSON(spots)
	},
}

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Reserve a parking spot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		reservation, err := cli.user.CreateReservation(cmd.Context(), portal.ReservationRequest{
			SpotID:          reserveSpot,
			VehicleNumber:   reserveVehicle,
			DurationMinutes: reserveDuration,
		})
		if err != nil {
			return err
		}
		return printJSON(reservation)
	},
}

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "List your reservations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		reservations, err := cli.user.MyReservations(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(reservations)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <reservation-id>",
	Short: "Cancel a reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		if err := cli.user.CancelReservation(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("reservation cancelled")
		return nil
	},
}

var checkInCmd = &cobra.Command{
	Use:   "check-in",
	Short: "Start a parking session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		session, err := cli.user.CheckIn(cmd.Context(), portal.CheckInRequest{
			SpotID:        checkInSpot,
			VehicleNumber: checkInVehicle,
		})
		if err != nil {
			return err
		}
		return printJSON(session)
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List parking sessions (active by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}

		var (
			sessions []portal.ParkingSession
			err      error
		)
		if sessionsAll {
			sessions, err = cli.user.MySessions(cmd.Context())
		} else {
			sessions, err = cli.user.ActiveSessions(cmd.Context())
		}
		if err != nil {
			return err
		}
		return printJSON(sessions)
	},
}

var feeCmd = &cobra.Command{
	Use:   "fee <session-id>",
	Short: "Preview the fee for an active session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		fee, err := cli.user.CalculateFee(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(fee)
	},
}

var checkOutCmd = &cobra.Command{
	Use:   "check-out <session-id>",
	Short: "End a session and pay the bill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		method, err := enums.ParsePaymentMethod(checkOutMethod)
		if err != nil {
			return err
		}
		bill, err := cli.user.CheckOut(cmd.Context(), args[0], method)
		if err != nil {
			return err
		}
		return printJSON(bill)
	},
}

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List your paid bills",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireRole(cmd.Context(), enums.RoleUser, enums.RoleAdmin); err != nil {
			return err
		}
		bills, err := cli.user.MyBills(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(bills)
	},
}

func init() {
	spotsCmd.Flags().StringVar(&spotsBuilding, "building", "", "Filter by building id")
	spotsCmd.Flags().StringVar(&spotsFloor, "floor", "", "Filter by floor id")
	spotsCmd.Flags().StringVar(&spotsType, "type", "", "Filter by spot type (REGULAR, VIP, HANDICAP, EV_CHARGING)")

	reserveCmd.Flags().StringVar(&reserveSpot, "spot", "", "Spot id to reserve")
	reserveCmd.Flags().StringVar(&reserveVehicle, "vehicle", "", "Vehicle number")
	reserveCmd.Flags().IntVar(&reserveDuration, "duration", 0, "Reservation length in minutes")
	_ = reserveCmd.MarkFlagRequired("spot")

	checkInCmd.Flags().StringVar(&checkInSpot, "spot", "", "Spot id to park at")
	checkInCmd.Flags().StringVar(&checkInVehicle, "vehicle", "", "Vehicle number")
	_ = checkInCmd.MarkFlagRequired("spot")
	_ = checkInCmd.MarkFlagRequired("vehicle")

	sessionsCmd.Flags().BoolVar(&sessionsAll, "all", false, "Include completed sessions")

	checkOutCmd.Flags().StringVar(&checkOutMethod, "method", "CASH", "Payment method (CASH, CREDIT_CARD, DEBIT_CARD, UPI)")
}
