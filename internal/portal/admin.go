package portal

import (
	"context"

	"github.com/codeup/statio-portal/internal/api"
	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/pagination"
)

// AdminService is the operator surface: buildings, floors, spots, users, and
// the activity log. The server enforces the ADMIN role; the guard keeps
// non-admins from ever reaching these calls.
type AdminService struct {
	client *api.Client
}

func NewAdminService(client *api.Client) *AdminService {
	return &AdminService{client: client}
}

func (s *AdminService) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	var out AdminDashboard
	if err := s.client.Get(ctx, "/admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Buildings

func (s *AdminService) Buildings(ctx context.Context) ([]Building, error) {
	var out []Building
	if err := s.client.Get(ctx, "/admin/buildings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AdminService) BuildingsPaginated(ctx context.Context, params pagination.Params) (*pagination.Page[Building], error) {
	var out pagination.Page[Building]
	if err := s.client.Get(ctx, "/admin/buildings/paginated", params.Normalize().Query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) Building(ctx context.Context, id string) (*Building, error) {
	var out Building
	if err := s.client.Get(ctx, "/admin/buildings/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) CreateBuilding(ctx context.Context, req BuildingRequest) (*Building, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid building input")
	}
	var out Building
	if err := s.client.Post(ctx, "/admin/buildings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateBuilding(ctx context.Context, id string, req BuildingRequest) (*Building, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid building input")
	}
	var out Building
	if err := s.client.Put(ctx, "/admin/buildings/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) DeleteBuilding(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/admin/buildings/"+id)
}

// Floors

func (s *AdminService) Floors(ctx context.Context) ([]Floor, error) {
	var out []Floor
	if err := s.client.Get(ctx, "/admin/floors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AdminService) FloorsPaginated(ctx context.Context, params pagination.Params) (*pagination.Page[Floor], error) {
	var out pagination.Page[Floor]
	if err := s.client.Get(ctx, "/admin/floors/paginated", params.Normalize().Query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) CreateFloor(ctx context.Context, req FloorRequest) (*Floor, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid floor input")
	}
	var out Floor
	if err := s.client.Post(ctx, "/admin/floors", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateFloor(ctx context.Context, id string, req FloorRequest) (*Floor, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid floor input")
	}
	var out Floor
	if err := s.client.Put(ctx, "/admin/floors/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) DeleteFloor(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/admin/floors/"+id)
}

// Spots

func (s *AdminService) Spots(ctx context.Context) ([]ParkingSpot, error) {
	var out []ParkingSpot
	if err := s.client.Get(ctx, "/admin/spots", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AdminService) SpotsPaginated(ctx context.Context, params pagination.Params) (*pagination.Page[ParkingSpot], error) {
	var out pagination.Page[ParkingSpot]
	if err := s.client.Get(ctx, "/admin/spots/paginated", params.Normalize().Query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) CreateSpot(ctx context.Context, req SpotRequest) (*ParkingSpot, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spot input")
	}
	var out ParkingSpot
	if err := s.client.Post(ctx, "/admin/spots", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateSpot(ctx context.Context, id string, req SpotRequest) (*ParkingSpot, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spot input")
	}
	var out ParkingSpot
	if err := s.client.Put(ctx, "/admin/spots/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateSpotStatus(ctx context.Context, id string, status enums.SpotStatus) (*ParkingSpot, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot status")
	}
	var out ParkingSpot
	body := map[string]string{"status": status.String()}
	if err := s.client.Patch(ctx, "/admin/spots/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) DeleteSpot(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/admin/spots/"+id)
}

// Users

func (s *AdminService) Users(ctx context.Context, params pagination.Params) (*pagination.Page[User], error) {
	var out pagination.Page[User]
	if err := s.client.Get(ctx, "/admin/users", params.Normalize().Query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) User(ctx context.Context, id string) (*User, error) {
	var out User
	if err := s.client.Get(ctx, "/admin/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user input")
	}
	var out User
	if err := s.client.Post(ctx, "/admin/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user input")
	}
	var out User
	if err := s.client.Post(ctx, "/admin/users/admin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user input")
	}
	var out User
	if err := s.client.Put(ctx, "/admin/users/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, id string, active bool) (*User, error) {
	var out User
	body := map[string]bool{"isActive": active}
	if err := s.client.Patch(ctx, "/admin/users/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/admin/users/"+id)
}

// Logs

func (s *AdminService) Logs(ctx context.Context, params pagination.Params, filter LogFilter) (*pagination.Page[ActivityLog], error) {
	query := params.Normalize().Query()
	if filter.Action != "" {
		query.Set("action", filter.Action)
	}
	if filter.UserID != "" {
		query.Set("userId", filter.UserID)
	}

	var out pagination.Page[ActivityLog]
	if err := s.client.Get(ctx, "/admin/logs", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
