package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// ListStationsRequest фильтр каталога станций
type ListStationsRequest struct {
	Query         string   `json:"q,omitempty"`
	Connector     string   `json:"connector,omitempty"`
	OnlyAvailable bool     `json:"available,omitempty"`
	Latitude      *float64 `json:"lat,omitempty"`
	Longitude     *float64 `json:"lng,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListStationsRequest) ToDomainFilter() (domain.StationFilter, error) {
	filter := domain.StationFilter{
		Query:         strings.TrimSpace(r.Query),
		Connector:     domain.ConnectorType(strings.TrimSpace(r.Connector)),
		OnlyAvailable: r.OnlyAvailable,
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		return filter, fmt.Errorf("%w: lat and lng must be given together", domain.ErrInvalidInput)
	}
	if r.Latitude != nil {
		point := domain.GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
		if err := point.Validate(); err != nil {
			return filter, err
		}
		filter.Near = &point
	}
	return filter, nil
}

// ChargerResponse состояние зарядки
type ChargerResponse struct {
	ID            int     `json:"id"`
	Number        string  `json:"number"` // "CH-01"
	ConnectorType string  `json:"connectorType"`
	PowerKW       float64 `json:"powerKw,omitempty"`
	Status        string  `json:"status"`                  // free | occupied
	OccupiedUntil *string `json:"occupiedUntil,omitempty"` // RFC3339
}

// StationResponse карточка станции
type StationResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Location          string            `json:"location"`
	Latitude          float64           `json:"latitude"`
	Longitude         float64           `json:"longitude"`
	ConnectorTypes    []string          `json:"connectorTypes"`
	TariffPerUnit     float64           `json:"pricePerUnit"`
	OpenTime          *string           `json:"openTime,omitempty"`
	CloseTime         *string           `json:"closeTime,omitempty"`
	Amenities         []string          `json:"amenities"`
	TotalChargers     int               `json:"totalChargers"`
	AvailableChargers int               `json:"availableChargers"`
	DistanceKm        *float64          `json:"distanceKm,omitempty"`
	Chargers          []ChargerResponse `json:"chargers"`
}

// StationListResponse ответ со списком станций
type StationListResponse struct {
	Stations []StationResponse `json:"stations"`
}

// FromDomainStation конвертирует domain модель в DTO
func FromDomainStation(s *domain.Station, near *domain.GeoPoint) *StationResponse {
	resp := &StationResponse{
		ID:                s.ID,
		Name:              s.Name,
		Location:          s.Location,
		Latitude:          s.Coordinates.Latitude,
		Longitude:         s.Coordinates.Longitude,
		ConnectorTypes:    make([]string, 0, len(s.ConnectorTypes)),
		TariffPerUnit:     s.TariffPerUnit,
		Amenities:         append([]string{}, s.Amenities...),
		TotalChargers:     s.TotalChargers(),
		AvailableChargers: s.AvailableChargers(),
		Chargers:          make([]ChargerResponse, 0, len(s.Chargers)),
	}
	for _, c := range s.ConnectorTypes {
		resp.ConnectorTypes = append(resp.ConnectorTypes, string(c))
	}
	if !s.OperatingHours.IsAlwaysOpen() {
		open, closeAt := s.OperatingHours.Open.String(), s.OperatingHours.Close.String()
		resp.OpenTime = &open
		resp.CloseTime = &closeAt
	}
	if near != nil {
		d := math.Round(domain.DistanceKm(*near, s.Coordinates)*100) / 100
		resp.DistanceKm = &d
	}

	for _, c := range s.Chargers {
		cr := ChargerResponse{
			ID:            c.ID,
			Number:        c.Label(),
			ConnectorType: string(c.ConnectorType),
			PowerKW:       c.PowerKW,
			Status:        "free",
		}
		if !c.IsFree() {
			until := c.OccupiedUntil.Format(time.RFC3339)
			cr.Status = "occupied"
			cr.OccupiedUntil = &until
		}
		resp.Chargers = append(resp.Chargers, cr)
	}
	return resp
}

// FromDomainStationList конвертирует список domain моделей в DTO
func FromDomainStationList(stations []*domain.Station, near *domain.GeoPoint) *StationListResponse {
	resp := &StationListResponse{
		Stations: make([]StationResponse, 0, len(stations)),
	}
	for _, s := range stations {
		resp.Stations = append(resp.Stations, *FromDomainStation(s, near))
	}
	return resp
}
