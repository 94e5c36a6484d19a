package stations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

// Service каталог станций
type Service struct {
	registry StationRegistry
	clock    Clock
	logger   Logger
}

// NewService создает новый экземпляр сервиса станций
func NewService(registry StationRegistry, clock Clock, logger Logger) *Service {
	return &Service{
		registry: registry,
		clock:    clock,
		logger:   logger,
	}
}

// Get получает станцию по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.StationResponse, error) {
	s.logger.Info("GetStation: fetching station id=%d", id)

	s.refresh(ctx)

	station, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetStation: station id=%d not found", id)
			return nil, err
		}
		s.logger.Error("GetStation: registry error for station id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetStation - registry error: %v", ErrInternal, err)
	}

	return models.FromDomainStation(station, nil), nil
}

// List каталог станций с фильтрацией по подстроке, разъёму, наличию свободной зарядки
// и сортировкой по расстоянию, если задана точка
func (s *Service) List(ctx context.Context, req *models.ListStationsRequest) (*models.StationListResponse, error) {
	s.logger.Info("ListStations: q=%q, connector=%q, available=%t", req.Query, req.Connector, req.OnlyAvailable)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListStations: invalid filter: %v", err)
		return nil, err
	}

	s.refresh(ctx)

	stations := s.registry.List(filter)

	s.logger.Info("ListStations: found %d stations", len(stations))
	return models.FromDomainStationList(stations, filter.Near), nil
}

func (s *Service) refresh(ctx context.Context) {
	if s.clock == nil {
		return
	}
	if err := s.clock.Refresh(ctx); err != nil {
		s.logger.Warn("Stations: serving possibly stale availability: %v", err)
	}
}
