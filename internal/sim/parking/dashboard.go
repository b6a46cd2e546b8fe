package parking

import (
	"context"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
)

const recentActivityLimit = 10

// UserDashboard aggregates the driver's view: global occupancy plus the
// user's own reservations, sessions, and spend.
func (s *Service) UserDashboard(ctx context.Context, userID string) (*portal.Dashboard, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}

	dash := &portal.Dashboard{}

	total, occupied, available, err := s.spotCounts(ctx)
	if err != nil {
		return nil, err
	}
	dash.TotalSpots = total
	dash.OccupiedSpots = occupied
	dash.AvailableSpots = available
	if total > 0 {
		dash.OccupancyPercentage = float64(occupied) / float64(total) * 100
	}

	counts := []struct {
		dest  *int
		query func() (int64, error)
	}{
		{&dash.ActiveReservations, func() (int64, error) {
			return s.countWhere(ctx, &models.Reservation{}, "user_id = ? AND status = ?", uid, enums.ReservationStatusActive)
		}},
		{&dash.TotalReservations, func() (int64, error) {
			return s.countWhere(ctx, &models.Reservation{}, "user_id = ?", uid)
		}},
		{&dash.ActiveSessions, func() (int64, error) {
			return s.countWhere(ctx, &models.ParkingSession{}, "user_id = ? AND status = ?", uid, enums.SessionStatusActive)
		}},
		{&dash.TotalCompletedSessions, func() (int64, error) {
			return s.countWhere(ctx, &models.ParkingSession{}, "user_id = ? AND status = ?", uid, enums.SessionStatusCompleted)
		}},
	}
	for _, c := range counts {
		n, err := c.query()
		if err != nil {
			return nil, err
		}
		*c.dest = int(n)
	}

	var spend struct {
		Total float64
		Count int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND status = ?", uid, enums.PaymentStatusCompleted).
		Scan(&spend).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}
	dash.TotalEarnings = spend.Total
	if spend.Count > 0 {
		dash.AverageSessionFee = spend.Total / float64(spend.Count)
	}

	var outstanding float64
	if err := s.db.WithContext(ctx).Model(&models.ParkingSession{}).
		Select("COALESCE(SUM(amount_due), 0)").
		Where("user_id = ? AND status = ?", uid, enums.SessionStatusActive).
		Scan(&outstanding).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum outstanding")
	}
	dash.OutstandingFees = outstanding

	var logs []models.ActivityLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(recentActivityLimit).
		Find(&logs).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent activity")
	}
	dash.RecentActivity = make([]portal.ActivityRecord, 0, len(logs))
	for _, entry := range logs {
		dash.RecentActivity = append(dash.RecentActivity, portal.ActivityRecord{
			Action:    string(entry.Action),
			Details:   entry.Details,
			Timestamp: entry.CreatedAt,
		})
	}

	return dash, nil
}

// AdminDashboard aggregates the operator's view across the whole garage.
func (s *Service) AdminDashboard(ctx context.Context, recent []portal.ActivityLog) (*portal.AdminDashboard, error) {
	dash := &portal.AdminDashboard{RecentActivity: recent}

	total, occupied, available, err := s.spotCounts(ctx)
	if err != nil {
		return nil, err
	}
	dash.TotalSpots = total
	dash.OccupiedSpots = occupied
	dash.AvailableSpots = available

	counts := []struct {
		dest  *int
		query func() (int64, error)
	}{
		{&dash.TotalUsers, func() (int64, error) {
			return s.countWhere(ctx, &models.User{}, "role = ?", enums.RoleUser)
		}},
		{&dash.TotalAdmins, func() (int64, error) {
			return s.countWhere(ctx, &models.User{}, "role = ?", enums.RoleAdmin)
		}},
		{&dash.ActiveUsers, func() (int64, error) {
			return s.countWhere(ctx, &models.User{}, "is_active = ?", true)
		}},
		{&dash.ActiveSessions, func() (int64, error) {
			return s.countWhere(ctx, &models.ParkingSession{}, "status = ?", enums.SessionStatusActive)
		}},
		{&dash.TotalReservations, func() (int64, error) {
			return s.countWhere(ctx, &models.Reservation{}, "")
		}},
		{&dash.TotalPayments, func() (int64, error) {
			return s.countWhere(ctx, &models.Payment{}, "")
		}},
	}
	for _, c := range counts {
		n, err := c.query()
		if err != nil {
			return nil, err
		}
		*c.dest = int(n)
	}

	var revenue float64
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", enums.PaymentStatusCompleted).
		Scan(&revenue).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	dash.TotalRevenue = revenue

	stats, err := s.buildingStats(ctx)
	if err != nil {
		return nil, err
	}
	dash.BuildingStats = stats

	return dash, nil
}

func (s *Service) buildingStats(ctx context.Context) ([]portal.BuildingStats, error) {
	var buildings []models.Building
	if err := s.db.WithContext(ctx).Preload("Floors.Spots").Order("name").Find(&buildings).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buildings")
	}

	stats := make([]portal.BuildingStats, 0, len(buildings))
	for _, building := range buildings {
		stat := portal.BuildingStats{
			BuildingID:   building.ID.String(),
			BuildingName: building.Name,
			TotalFloors:  len(building.Floors),
		}
		for _, floor := range building.Floors {
			stat.TotalSpots += len(floor.Spots)
			for _, spot := range floor.Spots {
				switch spot.Status {
				case enums.SpotStatusOccupied:
					stat.OccupiedSpots++
				case enums.SpotStatusAvailable:
					stat.AvailableSpots++
				}
			}
		}
		if stat.TotalSpots > 0 {
			stat.OccupancyPercentage = float64(stat.OccupiedSpots) / float64(stat.TotalSpots) * 100
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (s *Service) spotCounts(ctx context.Context) (total, occupied, available int, err error) {
	n, err := s.countWhere(ctx, &models.Spot{}, "")
	if err != nil {
		return 0, 0, 0, err
	}
	total = int(n)

	n, err = s.countWhere(ctx, &models.Spot{}, "status = ?", enums.SpotStatusOccupied)
	if err != nil {
		return 0, 0, 0, err
	}
	occupied = int(n)

	n, err = s.countWhere(ctx, &models.Spot{}, "status = ?", enums.SpotStatusAvailable)
	if err != nil {
		return 0, 0, 0, err
	}
	available = int(n)

	return total, occupied, available, nil
}

func (s *Service) countWhere(ctx context.Context, model any, cond string, args ...any) (int64, error) {
	query := s.db.WithContext(ctx).Model(model)
	if cond != "" {
		query = query.Where(cond, args...)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rows")
	}
	return n, nil
}
