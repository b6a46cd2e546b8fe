package parking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/db"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/pagination"
)

// Buildings

func (s *Service) Buildings(ctx context.Context) ([]portal.Building, error) {
	var rows []models.Building
	if err := s.db.WithContext(ctx).Preload("Floors.Spots").Order("name").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buildings")
	}

	items := make([]portal.Building, 0, len(rows))
	for _, row := range rows {
		items = append(items, buildingToDTO(row))
	}
	return items, nil
}

func (s *Service) BuildingsPaginated(ctx context.Context, params pagination.Params) (*pagination.Page[portal.Building], error) {
	params = params.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Building{}).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count buildings")
	}

	var rows []models.Building
	if err := s.db.WithContext(ctx).
		Preload("Floors.Spots").
		Order("name").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buildings")
	}

	items := make([]portal.Building, 0, len(rows))
	for _, row := range rows {
		items = append(items, buildingToDTO(row))
	}
	page := pagination.NewPage(items, params, total)
	return &page, nil
}

func (s *Service) Building(ctx context.Context, id string) (*portal.Building, error) {
	parsed, err := parseID(id, "building id")
	if err != nil {
		return nil, err
	}

	var row models.Building
	err = s.db.WithContext(ctx).Preload("Floors.Spots").Where("id = ?", parsed).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "building not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find building")
	}

	dto := buildingToDTO(row)
	return &dto, nil
}

func (s *Service) CreateBuilding(ctx context.Context, req portal.BuildingRequest) (*portal.Building, error) {
	row := models.Building{
		ID:      uuid.New(),
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "building name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create building")
	}

	dto := buildingToDTO(row)
	return &dto, nil
}

func (s *Service) UpdateBuilding(ctx context.Context, id string, req portal.BuildingRequest) (*portal.Building, error) {
	parsed, err := parseID(id, "building id")
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.Building{}).Where("id = ?", parsed).Updates(map[string]any{
		"name":    req.Name,
		"address": req.Address,
	})
	if result.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update building")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "building not found")
	}

	return s.Building(ctx, id)
}

func (s *Service) DeleteBuilding(ctx context.Context, id string) error {
	parsed, err := parseID(id, "building id")
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var floorIDs []uuid.UUID
		if err := tx.Model(&models.Floor{}).Where("building_id = ?", parsed).Pluck("id", &floorIDs).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list floors")
		}
		if len(floorIDs) > 0 {
			if err := tx.Where("floor_id IN ?", floorIDs).Delete(&models.Spot{}).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete spots")
			}
			if err := tx.Where("building_id = ?", parsed).Delete(&models.Floor{}).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete floors")
			}
		}

		result := tx.Where("id = ?", parsed).Delete(&models.Building{})
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "delete building")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "building not found")
		}
		return nil
	})
}

// Floors

func (s *Service) Floors(ctx context.Context) ([]portal.Floor, error) {
	var rows []models.Floor
	if err := s.db.WithContext(ctx).Preload("Building").Preload("Spots").Order("floor_number").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list floors")
	}

	items := make([]portal.Floor, 0, len(rows))
	for _, row := range rows {
		items = append(items, floorToDTO(row))
	}
	return items, nil
}

func (s *Service) FloorsPaginated(ctx context.Context, params pagination.Params) (*pagination.Page[portal.Floor], error) {
	params = params.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Floor{}).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count floors")
	}

	var rows []models.Floor
	if err := s.db.WithContext(ctx).
		Preload("Building").
		Preload("Spots").
		Order("floor_number").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list floors")
	}

	items := make([]portal.Floor, 0, len(rows))
	for _, row := range rows {
		items = append(items, floorToDTO(row))
	}
	page := pagination.NewPage(items, params, total)
	return &page, nil
}

func (s *Service) CreateFloor(ctx context.Context, req portal.FloorRequest) (*portal.Floor, error) {
	buildingID, err := parseID(req.BuildingID, "building id")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Building{}).Where("id = ?", buildingID).Count(&count).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find building")
	}
	if count == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "building not found")
	}

	row := models.Floor{
		ID:          uuid.New(),
		BuildingID:  buildingID,
		FloorNumber: req.FloorNumber,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create floor")
	}

	return s.floorByID(ctx, row.ID)
}

func (s *Service) UpdateFloor(ctx context.Context, id string, req portal.FloorRequest) (*portal.Floor, error) {
	parsed, err := parseID(id, "floor id")
	if err != nil {
		return nil, err
	}
	buildingID, err := parseID(req.BuildingID, "building id")
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.Floor{}).Where("id = ?", parsed).Updates(map[string]any{
		"building_id":  buildingID,
		"floor_number": req.FloorNumber,
	})
	if result.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update floor")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "floor not found")
	}

	return s.floorByID(ctx, parsed)
}

func (s *Service) DeleteFloor(ctx context.Context, id string) error {
	parsed, err := parseID(id, "floor id")
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("floor_id = ?", parsed).Delete(&models.Spot{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete spots")
		}

		result := tx.Where("id = ?", parsed).Delete(&models.Floor{})
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "delete floor")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "floor not found")
		}
		return nil
	})
}

func (s *Service) floorByID(ctx context.Context, id uuid.UUID) (*portal.Floor, error) {
	var row models.Floor
	err := s.db.WithContext(ctx).Preload("Building").Preload("Spots").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "floor not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find floor")
	}
	dto := floorToDTO(row)
	return &dto, nil
}

// Spots

func (s *Service) Spots(ctx context.Context) ([]portal.ParkingSpot, error) {
	var rows []models.Spot
	if err := s.db.WithContext(ctx).Preload("Floor.Building").Order("spot_number").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list spots")
	}

	items := make([]portal.ParkingSpot, 0, len(rows))
	for _, row := range rows {
		items = append(items, spotToDTO(row))
	}
	return items, nil
}

func (s *Service) SpotsPaginated(ctx context.Context, params pagination.Params) (*pagination.Page[portal.ParkingSpot], error) {
	params = params.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Spot{}).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count spots")
	}

	var rows []models.Spot
	if err := s.db.WithContext(ctx).
		Preload("Floor.Building").
		Order("spot_number").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list spots")
	}

	items := make([]portal.ParkingSpot, 0, len(rows))
	for _, row := range rows {
		items = append(items, spotToDTO(row))
	}
	page := pagination.NewPage(items, params, total)
	return &page, nil
}

// AvailableSpots lists spots drivers can take, optionally narrowed by
// building, floor, or type.
func (s *Service) AvailableSpots(ctx context.Context, filter portal.SpotFilter) ([]portal.ParkingSpot, error) {
	query := s.db.WithContext(ctx).
		Preload("Floor.Building").
		Where("status = ?", enums.SpotStatusAvailable)

	if filter.FloorID != "" {
		floorID, err := parseID(filter.FloorID, "floor id")
		if err != nil {
			return nil, err
		}
		query = query.Where("floor_id = ?", floorID)
	}
	if filter.BuildingID != "" {
		buildingID, err := parseID(filter.BuildingID, "building id")
		if err != nil {
			return nil, err
		}
		query = query.Where("floor_id IN (?)", s.db.Model(&models.Floor{}).Select("id").Where("building_id = ?", buildingID))
	}
	if filter.Type != "" {
		if !filter.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
		}
		query = query.Where("type = ?", filter.Type)
	}

	var rows []models.Spot
	if err := query.Order("spot_number").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available spots")
	}

	items := make([]portal.ParkingSpot, 0, len(rows))
	for _, row := range rows {
		items = append(items, spotToDTO(row))
	}
	return items, nil
}

func (s *Service) CreateSpot(ctx context.Context, req portal.SpotRequest) (*portal.ParkingSpot, error) {
	floorID, err := parseID(req.FloorID, "floor id")
	if err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Floor{}).Where("id = ?", floorID).Count(&count).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find floor")
	}
	if count == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "floor not found")
	}

	row := models.Spot{
		ID:         uuid.New(),
		FloorID:    floorID,
		SpotNumber: req.SpotNumber,
		Type:       req.Type,
		Status:     enums.SpotStatusAvailable,
		HourlyRate: req.HourlyRate,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create spot")
	}

	spot, err := s.findSpot(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	dto := spotToDTO(*spot)
	return &dto, nil
}

func (s *Service) UpdateSpot(ctx context.Context, id string, req portal.SpotRequest) (*portal.ParkingSpot, error) {
	parsed, err := parseID(id, "spot id")
	if err != nil {
		return nil, err
	}
	floorID, err := parseID(req.FloorID, "floor id")
	if err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
	}

	result := s.db.WithContext(ctx).Model(&models.Spot{}).Where("id = ?", parsed).Updates(map[string]any{
		"floor_id":    floorID,
		"spot_number": req.SpotNumber,
		"type":        req.Type,
		"hourly_rate": req.HourlyRate,
	})
	if result.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update spot")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "spot not found")
	}

	spot, err := s.findSpot(ctx, parsed)
	if err != nil {
		return nil, err
	}
	dto := spotToDTO(*spot)
	return &dto, nil
}

// UpdateSpotStatus forces a spot into the given status, typically for
// maintenance. A spot with an active session cannot be changed.
func (s *Service) UpdateSpotStatus(ctx context.Context, id string, status enums.SpotStatus) (*portal.ParkingSpot, error) {
	parsed, err := parseID(id, "spot id")
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot status")
	}

	spot, err := s.findSpot(ctx, parsed)
	if err != nil {
		return nil, err
	}

	var active int64
	if err := s.db.WithContext(ctx).Model(&models.ParkingSession{}).
		Where("spot_id = ? AND status = ?", parsed, enums.SessionStatusActive).
		Count(&active).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active sessions")
	}
	if active > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "spot has an active session")
	}

	if err := s.db.WithContext(ctx).Model(spot).Update("status", status).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update spot status")
	}

	s.audit.Record(ctx, nil, "", enums.ActivitySpotStatusUpdated, "spot "+spot.SpotNumber+" set to "+status.String())

	spot.Status = status
	dto := spotToDTO(*spot)
	return &dto, nil
}

func (s *Service) DeleteSpot(ctx context.Context, id string) error {
	parsed, err := parseID(id, "spot id")
	if err != nil {
		return err
	}

	var active int64
	if err := s.db.WithContext(ctx).Model(&models.ParkingSession{}).
		Where("spot_id = ? AND status = ?", parsed, enums.SessionStatusActive).
		Count(&active).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active sessions")
	}
	if active > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "spot has an active session")
	}

	result := s.db.WithContext(ctx).Where("id = ?", parsed).Delete(&models.Spot{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "delete spot")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "spot not found")
	}
	return nil
}

func buildingToDTO(row models.Building) portal.Building {
	dto := portal.Building{
		ID:          row.ID.String(),
		Name:        row.Name,
		Address:     row.Address,
		TotalFloors: len(row.Floors),
		CreatedAt:   row.CreatedAt,
	}
	for _, floor := range row.Floors {
		dto.TotalSpots += len(floor.Spots)
		for _, spot := range floor.Spots {
			if spot.Status == enums.SpotStatusOccupied {
				dto.OccupiedSpots++
			}
			if spot.Status == enums.SpotStatusAvailable {
				dto.AvailableSpots++
			}
		}
	}
	return dto
}

func floorToDTO(row models.Floor) portal.Floor {
	dto := portal.Floor{
		ID:          row.ID.String(),
		FloorNumber: row.FloorNumber,
		BuildingID:  row.BuildingID.String(),
		TotalSpots:  len(row.Spots),
	}
	if row.Building != nil {
		dto.BuildingName = row.Building.Name
	}
	for _, spot := range row.Spots {
		if spot.Status == enums.SpotStatusOccupied {
			dto.OccupiedSpots++
		}
		if spot.Status == enums.SpotStatusAvailable {
			dto.AvailableSpots++
		}
	}
	return dto
}
