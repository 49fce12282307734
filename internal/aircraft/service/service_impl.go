package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	"github.com/skyharborlabs/skyharbor/internal/aircraft/repository"
)

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  aircraftdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:   p.Log.Named("aircraft.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) Create(ctx context.Context, aircraft *aircraftdomain.Aircraft) (*aircraftdomain.Aircraft, error) {
	aircraft.Category = strings.TrimSpace(aircraft.Category)
	aircraft.Type = strings.TrimSpace(aircraft.Type)
	if aircraft.Category == "" || aircraft.Type == "" || aircraft.CruiseSpeed <= 0 {
		return nil, aircraftdomain.ErrInvalidAircraft
	}

	aircraft.ID = s.genID.Generate()
	if err := s.repo.Insert(ctx, aircraft); err != nil {
		return nil, err
	}
	return aircraft, nil
}

func (s *Service) Get(ctx context.Context, id string) (*aircraftdomain.Aircraft, error) {
	aircraftID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, aircraftdomain.ErrInvalidID
	}
	aircraft, err := s.repo.FindByID(ctx, aircraftID)
	if err != nil {
		return nil, err
	}
	if aircraft == nil {
		return nil, aircraftdomain.ErrAircraftNotFound
	}
	return aircraft, nil
}

func (s *Service) List(ctx context.Context) ([]aircraftdomain.Aircraft, error) {
	return s.repo.List(ctx)
}

// SetAvailability flips the search eligibility flags.
func (s *Service) SetAvailability(ctx context.Context, id string, available, active *bool) (*aircraftdomain.Aircraft, error) {
	aircraft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if available != nil {
		aircraft.Available = available
	}
	if active != nil {
		aircraft.IsActive = active
	}
	if err := s.repo.Update(ctx, aircraft); err != nil {
		return nil, err
	}
	return aircraft, nil
}
